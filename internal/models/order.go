package models

import (
	"strconv"
	"time"

	"github.com/texora/texora-core/internal/audit"
)

// Order represents a textile production order placed by a party
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OrderNumber   string     `gorm:"size:30;uniqueIndex;not null" json:"order_number"`
	PartyID       uint       `gorm:"not null;index" json:"party_id"`
	AgentID       *uint      `gorm:"index" json:"agent_id"`
	Status        string     `gorm:"size:20;default:pending;index" json:"status"`
	OrderDate     time.Time  `gorm:"not null" json:"order_date"`
	DeliveryDate  *time.Time `gorm:"index" json:"delivery_date"`
	Rate          *float64   `gorm:"type:decimal" json:"rate"`
	TotalAmount   *float64   `gorm:"type:decimal" json:"total_amount"`
	AdvanceAmount *float64   `gorm:"type:decimal" json:"advance_amount"`
	Notes         *string    `gorm:"type:text" json:"notes"`
	Images        []string   `gorm:"serializer:json;type:jsonb" json:"images"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Party Party       `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	Agent *Party      `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// Order status constants
const (
	OrderStatusPending      = "pending"
	OrderStatusConfirmed    = "confirmed"
	OrderStatusInProduction = "in_production"
	OrderStatusReady        = "ready"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

// MayConfirm returns true if the order can transition to confirmed
func (o *Order) MayConfirm() bool {
	return o.Status == OrderStatusPending
}

// MayStartProduction returns true if the order can move into production
func (o *Order) MayStartProduction() bool {
	return o.Status == OrderStatusConfirmed
}

// MayMarkReady returns true if the order can be marked ready for dispatch
func (o *Order) MayMarkReady() bool {
	return o.Status == OrderStatusInProduction
}

// MayDeliver returns true if the order can be marked delivered
func (o *Order) MayDeliver() bool {
	return o.Status == OrderStatusReady
}

// MayCancel returns true if the order can still be cancelled
func (o *Order) MayCancel() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProduction:
		return true
	}
	return false
}

// MayReopen returns true if a cancelled order can be reopened
func (o *Order) MayReopen() bool {
	return o.Status == OrderStatusCancelled
}

// ComputeDerived recalculates per-item amounts and the order total.
// Callers invoke this explicitly before saving; nothing recomputes on write.
func (o *Order) ComputeDerived() {
	var total float64
	for i := range o.Items {
		item := &o.Items[i]
		rate := 0.0
		if item.Rate != nil {
			rate = *item.Rate
		} else if o.Rate != nil {
			rate = *o.Rate
		}
		amount := item.Quantity * rate
		item.Amount = &amount
		total += amount
	}
	o.TotalAmount = &total
}

// AuditSnapshot captures the order's tracked fields for diffing.
// Only these fields participate in change detection; bookkeeping columns
// (timestamps, foreign keys already covered by references) are left out.
func (o *Order) AuditSnapshot() audit.Snapshot {
	snap := audit.Snapshot{
		"status":         o.Status,
		"party":          partyRef(&o.Party, o.PartyID),
		"agent":          partyRef(o.Agent, derefUint(o.AgentID)),
		"delivery_date":  o.DeliveryDate,
		"rate":           o.Rate,
		"total_amount":   o.TotalAmount,
		"advance_amount": o.AdvanceAmount,
		"notes":          derefString(o.Notes),
		"images":         o.Images,
	}

	items := make([]audit.Snapshot, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.AuditSnapshot()
	}
	snap["items"] = items
	return snap
}

// OrderItem represents one line of an order, identified by position
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Position  int       `gorm:"not null" json:"position"`
	QualityID uint      `gorm:"not null;index" json:"quality_id"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"size:10;default:m" json:"unit"`
	Rate      *float64  `gorm:"type:decimal" json:"rate"`
	Amount    *float64  `gorm:"type:decimal" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Quality Quality `gorm:"foreignKey:QualityID" json:"quality,omitempty"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// AuditSnapshot captures the item's tracked fields for diffing
func (i *OrderItem) AuditSnapshot() audit.Snapshot {
	return audit.Snapshot{
		"quality":  qualityRef(&i.Quality, i.QualityID),
		"quantity": i.Quantity,
		"unit":     i.Unit,
		"rate":     i.Rate,
		"amount":   i.Amount,
	}
}

func partyRef(p *Party, id uint) any {
	if id == 0 {
		return nil
	}
	ref := audit.Ref{ID: strconv.FormatUint(uint64(id), 10)}
	if p != nil && p.ID == id {
		ref.Name = p.Name
	}
	return ref
}

func qualityRef(q *Quality, id uint) any {
	if id == 0 {
		return nil
	}
	ref := audit.Ref{ID: strconv.FormatUint(uint64(id), 10)}
	if q != nil && q.ID == id {
		ref.Name = q.Name
	}
	return ref
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefUint(u *uint) uint {
	if u == nil {
		return 0
	}
	return *u
}
