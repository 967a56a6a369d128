package repository

import (
	"context"
	"strings"

	"github.com/texora/texora-core/internal/models"
	"gorm.io/gorm"
)

// PartyRepository defines the interface for party data access
type PartyRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Party, error)
	Create(ctx context.Context, party *models.Party) error
	Update(ctx context.Context, party *models.Party) error
	List(ctx context.Context, query *ListQuery) ([]models.Party, int64, error)
}

type partyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) FindByID(ctx context.Context, id uint) (*models.Party, error) {
	var party models.Party
	err := r.db.WithContext(ctx).First(&party, id).Error
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) Create(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

func (r *partyRepository) List(ctx context.Context, query *ListQuery) ([]models.Party, int64, error) {
	var parties []models.Party
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Party{})
	if query == nil {
		query = NewListQuery()
	}
	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+strings.TrimSpace(query.Search)+"%")
	}
	if query.Filters != nil {
		if partyType, ok := query.Filters["party_type"]; ok && partyType != "" {
			db = db.Where("party_type = ?", partyType)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("name ASC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&parties).Error
	return parties, total, err
}
