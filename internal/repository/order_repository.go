package repository

import (
	"context"
	"strings"

	"github.com/texora/texora-core/internal/models"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *OrderQuery) ([]models.Order, int64, error)
}

// OrderQuery extends ListQuery with order-specific filters
type OrderQuery struct {
	*ListQuery
	Status  string
	PartyID uint
	AgentID uint
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	// Party and Agent join in one query; Items are one-to-many so they stay
	// a Preload, ordered by position so index-correlated diffs line up.
	err := r.db.WithContext(ctx).
		Joins("Party").
		Joins("Agent").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Quality").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update saves the order and replaces its item set. Items removed from the
// order are deleted; positions are reassigned from the slice order so the
// stored order matches what the caller authored.
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].Position = i
		}

		keep := make([]uint, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}
		stale := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	})
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

func (r *orderRepository) List(ctx context.Context, query *OrderQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Order{})

	if query.Status != "" {
		db = db.Where("orders.status = ?", query.Status)
	}
	if query.PartyID > 0 {
		db = db.Where("orders.party_id = ?", query.PartyID)
	}
	if query.AgentID > 0 {
		db = db.Where("orders.agent_id = ?", query.AgentID)
	}
	if query.ListQuery != nil && query.Search != "" {
		term := "%" + strings.TrimSpace(query.Search) + "%"
		db = db.Joins("JOIN parties ON parties.id = orders.party_id").
			Where("orders.order_number ILIKE ? OR parties.name ILIKE ?", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	lq := query.ListQuery
	if lq == nil {
		lq = NewListQuery()
	}
	err := db.Preload("Party").
		Order("orders.created_at DESC").
		Limit(lq.Limit()).
		Offset(lq.Offset()).
		Find(&orders).Error
	return orders, total, err
}
