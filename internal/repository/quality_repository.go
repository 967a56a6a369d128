package repository

import (
	"context"
	"strings"

	"github.com/texora/texora-core/internal/models"
	"gorm.io/gorm"
)

// QualityRepository defines the interface for fabric quality data access
type QualityRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Quality, error)
	FindByName(ctx context.Context, name string) (*models.Quality, error)
	Create(ctx context.Context, quality *models.Quality) error
	Update(ctx context.Context, quality *models.Quality) error
	List(ctx context.Context, query *ListQuery) ([]models.Quality, int64, error)
}

type qualityRepository struct {
	db *gorm.DB
}

// NewQualityRepository creates a new quality repository
func NewQualityRepository(db *gorm.DB) QualityRepository {
	return &qualityRepository{db: db}
}

func (r *qualityRepository) FindByID(ctx context.Context, id uint) (*models.Quality, error) {
	var quality models.Quality
	err := r.db.WithContext(ctx).First(&quality, id).Error
	if err != nil {
		return nil, err
	}
	return &quality, nil
}

func (r *qualityRepository) FindByName(ctx context.Context, name string) (*models.Quality, error) {
	var quality models.Quality
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&quality).Error
	if err != nil {
		return nil, err
	}
	return &quality, nil
}

func (r *qualityRepository) Create(ctx context.Context, quality *models.Quality) error {
	return r.db.WithContext(ctx).Create(quality).Error
}

func (r *qualityRepository) Update(ctx context.Context, quality *models.Quality) error {
	return r.db.WithContext(ctx).Save(quality).Error
}

func (r *qualityRepository) List(ctx context.Context, query *ListQuery) ([]models.Quality, int64, error) {
	var qualities []models.Quality
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Quality{})
	if query == nil {
		query = NewListQuery()
	}
	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+strings.TrimSpace(query.Search)+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("name ASC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&qualities).Error
	return qualities, total, err
}
