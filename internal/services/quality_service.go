package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"gorm.io/gorm"
)

// QualityService manages the fabric quality catalog
type QualityService struct {
	repo repository.QualityRepository
}

// NewQualityService creates a new quality service
func NewQualityService(repo repository.QualityRepository) *QualityService {
	return &QualityService{repo: repo}
}

// FindByID gets a quality by ID
func (s *QualityService) FindByID(ctx context.Context, id uint) (*models.Quality, error) {
	quality, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quality %d", ErrNotFound, id)
		}
		return nil, err
	}
	return quality, nil
}

// FindByName gets a quality by its unique name
func (s *QualityService) FindByName(ctx context.Context, name string) (*models.Quality, error) {
	quality, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quality %q", ErrNotFound, name)
		}
		return nil, err
	}
	return quality, nil
}

// List retrieves qualities matching the query
func (s *QualityService) List(ctx context.Context, query *repository.ListQuery) ([]models.Quality, int64, error) {
	return s.repo.List(ctx, query)
}

// Create saves a new quality
func (s *QualityService) Create(ctx context.Context, quality *models.Quality) error {
	if quality.Name == "" {
		return fmt.Errorf("%w: quality name is required", ErrInvalidArgument)
	}
	if quality.Unit == "" {
		quality.Unit = "m"
	}
	quality.Active = true
	if err := s.repo.Create(ctx, quality); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: quality %q already exists", ErrConflict, quality.Name)
		}
		return err
	}
	return nil
}

// Update saves changes to a quality
func (s *QualityService) Update(ctx context.Context, quality *models.Quality) error {
	return s.repo.Update(ctx, quality)
}
