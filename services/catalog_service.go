package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sdp-tech/upcy-api/models"
)

// CatalogService resolves service offerings and their materials/options.
// The order builder only reads the catalog through this interface.
type CatalogService interface {
	// ResolveService looks up a non-suspended offering by its public identifier
	ResolveService(serviceUUID uuid.UUID) (*models.Service, error)

	// ResolveMaterials resolves material identifiers belonging to the service
	ResolveMaterials(service *models.Service, materialUUIDs []uuid.UUID) ([]models.Material, error)

	// ResolveOptions resolves option identifiers belonging to the service
	ResolveOptions(service *models.Service, optionUUIDs []uuid.UUID) ([]models.Option, error)
}

// GormCatalogService implements CatalogService against the primary database
type GormCatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service backed by the given database
func NewCatalogService(db *gorm.DB) *GormCatalogService {
	return &GormCatalogService{db: db}
}

// ResolveService looks up an offering by UUID. Suspended offerings cannot
// be ordered and fail validation rather than lookup.
func (s *GormCatalogService) ResolveService(serviceUUID uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := s.db.Preload("Market").Where("service_uuid = ?", serviceUUID).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
		}
		return nil, err
	}

	if service.Suspended {
		return nil, NewValidationError("SERVICE_SUSPENDED", "Service is suspended and cannot be ordered")
	}

	return &service, nil
}

// ResolveMaterials resolves every material UUID against the given service.
// Any identifier that is missing or belongs to another service fails the
// whole resolution.
func (s *GormCatalogService) ResolveMaterials(service *models.Service, materialUUIDs []uuid.UUID) ([]models.Material, error) {
	if len(materialUUIDs) == 0 {
		return nil, nil
	}

	var materials []models.Material
	err := s.db.Where("material_uuid IN ? AND service_id = ?", materialUUIDs, service.ID).Find(&materials).Error
	if err != nil {
		return nil, err
	}

	if len(materials) != len(uniqueUUIDs(materialUUIDs)) {
		return nil, NewNotFoundError("MATERIAL_NOT_FOUND", "One or more materials do not exist for this service")
	}

	return materials, nil
}

// ResolveOptions resolves every option UUID against the given service
func (s *GormCatalogService) ResolveOptions(service *models.Service, optionUUIDs []uuid.UUID) ([]models.Option, error) {
	if len(optionUUIDs) == 0 {
		return nil, nil
	}

	var options []models.Option
	err := s.db.Where("option_uuid IN ? AND service_id = ?", optionUUIDs, service.ID).Find(&options).Error
	if err != nil {
		return nil, err
	}

	if len(options) != len(uniqueUUIDs(optionUUIDs)) {
		return nil, NewNotFoundError("OPTION_NOT_FOUND", "One or more options do not exist for this service")
	}

	return options, nil
}

// uniqueUUIDs deduplicates ids so repeated selections don't break the
// resolved-count check
func uniqueUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
