package service

import (
	"context"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/internal/domain/repository"
	"github.com/dukahub/dukapos-api/pkg/apperror"
	"github.com/dukahub/dukapos-api/pkg/utils"
	"github.com/google/uuid"
)

// LocationService handles store location management
type LocationService struct {
	locationRepo repository.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// CreateLocationInput represents the create location input
type CreateLocationInput struct {
	Name    string
	Address *string
	Phone   *string
}

// CreateLocation creates a new store location
func (s *LocationService) CreateLocation(ctx context.Context, input *CreateLocationInput) (*entity.Location, error) {
	slug := utils.Slugify(input.Name)

	existing, err := s.locationRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Location with this name already exists")
	}

	location := &entity.Location{
		Name:     input.Name,
		Slug:     slug,
		Address:  input.Address,
		Phone:    input.Phone,
		IsActive: true,
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}

	return location, nil
}

// GetLocation retrieves a location by ID
func (s *LocationService) GetLocation(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperror.NewNotFoundError("Location")
	}
	return location, nil
}

// ListLocations lists all locations
func (s *LocationService) ListLocations(ctx context.Context) ([]entity.Location, error) {
	return s.locationRepo.List(ctx)
}

// UpdateLocationInput represents the update location input
type UpdateLocationInput struct {
	ID       uuid.UUID
	Name     *string
	Address  *string
	Phone    *string
	IsActive *bool
}

// UpdateLocation updates a location
func (s *LocationService) UpdateLocation(ctx context.Context, input *UpdateLocationInput) (*entity.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperror.NewNotFoundError("Location")
	}

	if input.Name != nil {
		newSlug := utils.Slugify(*input.Name)
		if newSlug != location.Slug {
			existing, err := s.locationRepo.GetBySlug(ctx, newSlug)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != location.ID {
				return nil, apperror.NewConflictError("Location with this name already exists")
			}
			location.Slug = newSlug
		}
		location.Name = *input.Name
	}
	if input.Address != nil {
		location.Address = input.Address
	}
	if input.Phone != nil {
		location.Phone = input.Phone
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}

	return location, nil
}

// DeleteLocation deletes a location
func (s *LocationService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location == nil {
		return apperror.NewNotFoundError("Location")
	}

	return s.locationRepo.Delete(ctx, id)
}
