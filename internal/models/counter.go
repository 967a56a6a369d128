package models

import (
	"time"
)

// Counter is a named, persistently stored sequence used to mint
// human-readable identifiers. The sequence only moves through the atomic
// increment in CounterRepository; counters are never deleted, only
// deactivated.
type Counter struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:30;uniqueIndex;not null" json:"name"`
	Sequence  int64      `gorm:"not null;default:0" json:"sequence"`
	Prefix    string     `gorm:"size:10" json:"prefix"`
	Suffix    string     `gorm:"size:10" json:"suffix"`
	Format    string     `gorm:"size:30" json:"format"`
	Active    bool       `gorm:"default:true" json:"active"`
	LastReset *time.Time `json:"last_reset"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Counter
func (Counter) TableName() string {
	return "counters"
}
