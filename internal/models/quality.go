package models

import (
	"time"
)

// Quality represents a fabric quality that order items reference
type Quality struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	Composition *string   `gorm:"size:120" json:"composition"`
	Unit        string    `gorm:"size:10;default:m" json:"unit"`
	Rate        *float64  `gorm:"type:decimal" json:"rate"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Quality
func (Quality) TableName() string {
	return "qualities"
}
