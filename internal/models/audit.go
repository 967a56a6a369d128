package models

import (
	"time"

	"github.com/texora/texora-core/internal/audit"
)

// AuditLog is one immutable entry in the activity log. Entries are append
// only: normal flow never updates or deletes them, a correction is a new
// entry, and only the retention job may purge old ones.
type AuditLog struct {
	ID           uint              `gorm:"primaryKey" json:"-"`
	UUID         string            `gorm:"type:uuid;uniqueIndex;not null" json:"id"`
	ActorID      string            `gorm:"size:64;not null;index" json:"actor_id"`
	ActorName    string            `gorm:"size:120" json:"actor_name"`
	ActorRole    string            `gorm:"size:40" json:"actor_role"`
	Action       string            `gorm:"size:50;not null;index" json:"action"`
	ResourceType string            `gorm:"size:50;not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   string            `gorm:"size:64;index:idx_audit_resource" json:"resource_id"`
	Success      bool              `gorm:"not null;default:true" json:"success"`
	Severity     string            `gorm:"size:10;not null;index" json:"severity"`
	Diff         *audit.ChangeSet  `gorm:"serializer:json;type:jsonb" json:"diff,omitempty"`
	Summary      []string          `gorm:"serializer:json;type:jsonb" json:"summary,omitempty"`
	Metadata     map[string]string `gorm:"serializer:json;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionStatusChange = "STATUS_CHANGE"
)

// Severity constants
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)
