package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/texora/texora-core/internal/models"
	"gorm.io/gorm"
)

// AuditLogRepository defines the interface for the append-only activity log.
// There is deliberately no update operation: entries are immutable once
// written, and DeleteOlderThan exists only for the retention job.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	FindByResource(ctx context.Context, resourceType, resourceID string, query *ListQuery) ([]models.AuditLog, int64, error)
	FindByActor(ctx context.Context, actorID string, query *ListQuery) ([]models.AuditLog, int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time, query *ListQuery) ([]models.AuditLog, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	if entry.UUID == "" {
		entry.UUID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) FindByResource(ctx context.Context, resourceType, resourceID string, query *ListQuery) ([]models.AuditLog, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID)
	return r.paginate(db, query)
}

func (r *auditLogRepository) FindByActor(ctx context.Context, actorID string, query *ListQuery) ([]models.AuditLog, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("actor_id = ?", actorID)
	return r.paginate(db, query)
}

func (r *auditLogRepository) FindByDateRange(ctx context.Context, from, to time.Time, query *ListQuery) ([]models.AuditLog, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("created_at >= ? AND created_at <= ?", from, to)
	return r.paginate(db, query)
}

// paginate applies shared filters and the newest-first ordering.
// Timestamp ties are broken by the autoincrement key, which preserves
// insertion order.
func (r *auditLogRepository) paginate(db *gorm.DB, query *ListQuery) ([]models.AuditLog, int64, error) {
	if query == nil {
		query = NewListQuery()
	}

	if query.Filters != nil {
		if action, ok := query.Filters["action"]; ok && action != "" {
			db = db.Where("action = ?", action)
		}
		if severity, ok := query.Filters["severity"]; ok && severity != "" {
			db = db.Where("severity = ?", severity)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	err := db.Order("created_at DESC, id DESC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&entries).Error
	return entries, total, err
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
