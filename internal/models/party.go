package models

import (
	"time"

	"github.com/texora/texora-core/internal/audit"
)

// Party represents a trading partner: a customer mill, a broker or an agent
type Party struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null;index" json:"name"`
	PartyType string    `gorm:"size:20;default:customer;index" json:"party_type"`
	GSTNumber *string   `gorm:"size:20" json:"gst_number"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	Email     *string   `gorm:"size:120" json:"email"`
	Address   *string   `gorm:"type:text" json:"address"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Party
func (Party) TableName() string {
	return "parties"
}

// Party type constants
const (
	PartyTypeCustomer = "customer"
	PartyTypeAgent    = "agent"
	PartyTypeSupplier = "supplier"
)

// AuditSnapshot captures the party's tracked fields for diffing
func (p *Party) AuditSnapshot() audit.Snapshot {
	return audit.Snapshot{
		"name":       p.Name,
		"party_type": p.PartyType,
		"gst_number": derefString(p.GSTNumber),
		"phone":      derefString(p.Phone),
		"email":      derefString(p.Email),
		"address":    derefString(p.Address),
		"active":     p.Active,
	}
}
