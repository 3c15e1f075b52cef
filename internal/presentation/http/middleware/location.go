package middleware

import (
	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/internal/domain/repository"
	infraRepo "github.com/dukahub/dukapos-api/internal/infrastructure/repository"
	"github.com/dukahub/dukapos-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationMiddleware resolves the store location for the request and adds it
// to the request context so repositories can scope their queries.
//
// Resolution order: the X-Location-ID header (terminals always send it),
// then the location baked into the access token. Users bound to a location
// may not address another one.
func LocationMiddleware(locationRepo repository.LocationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var locationID uuid.UUID

		if header := c.GetHeader("X-Location-ID"); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(c, "Invalid X-Location-ID header")
				c.Abort()
				return
			}
			locationID = id
		} else if tokenLoc, exists := c.Get("token_location_id"); exists {
			if id, ok := tokenLoc.(uuid.UUID); ok {
				locationID = id
			}
		}

		if locationID == uuid.Nil {
			// Admins without a home location see all locations
			if role, _ := c.Get("user_role"); role == entity.RoleAdmin {
				ctx := infraRepo.WithSkipLocationScope(c.Request.Context(), true)
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
			response.BadRequest(c, "Location context required")
			c.Abort()
			return
		}

		// A user tied to a location cannot act on a different one
		if tokenLoc, exists := c.Get("token_location_id"); exists {
			if id, ok := tokenLoc.(uuid.UUID); ok && id != locationID {
				if role, _ := c.Get("user_role"); role != entity.RoleAdmin {
					response.Forbidden(c, "Access denied to this location")
					c.Abort()
					return
				}
			}
		}

		location, err := locationRepo.GetByID(c.Request.Context(), locationID)
		if err != nil || location == nil {
			response.NotFound(c, "Location not found")
			c.Abort()
			return
		}
		if !location.IsActive {
			response.Forbidden(c, "Location is inactive")
			c.Abort()
			return
		}

		c.Set("location_id", location.ID)
		c.Set("location", location)

		ctx := infraRepo.WithLocation(c.Request.Context(), location.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetLocationID retrieves the location ID from gin context
func GetLocationID(c *gin.Context) uuid.UUID {
	locationID, exists := c.Get("location_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := locationID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
