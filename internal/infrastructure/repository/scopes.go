package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// LocationIDKey is the context key for location ID
	LocationIDKey ctxKey = "location_id"
	// SkipLocationScopeKey is the context key for skipping location scope (admin reports)
	SkipLocationScopeKey ctxKey = "skip_location_scope"
)

// LocationScope returns a GORM scope that filters by location.
// This should be applied to all queries for location-scoped entities.
// If SkipLocationScopeKey is true in context (admin cross-location reports),
// returns all records.
func LocationScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skipScope, ok := ctx.Value(SkipLocationScopeKey).(bool); ok && skipScope {
			return db
		}

		locationID, ok := ctx.Value(LocationIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if location context missing
			// This prevents accidental cross-location data access
			return db.Where("1 = 0")
		}
		return db.Where("location_id = ?", locationID)
	}
}

// WithSkipLocationScope adds skip location scope flag to context (for admin reports)
func WithSkipLocationScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipLocationScopeKey, skip)
}

// WithLocation adds location ID to context
func WithLocation(ctx context.Context, locationID uuid.UUID) context.Context {
	return context.WithValue(ctx, LocationIDKey, locationID)
}

// GetLocationID extracts location ID from context
func GetLocationID(ctx context.Context) (uuid.UUID, bool) {
	locationID, ok := ctx.Value(LocationIDKey).(uuid.UUID)
	return locationID, ok
}
