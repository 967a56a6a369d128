package repository

import (
	"context"
	"errors"
	"time"

	"github.com/texora/texora-core/internal/models"
	"gorm.io/gorm"
)

// ErrCounterInactive is returned when allocating against a deactivated counter
var ErrCounterInactive = errors.New("counter is deactivated")

// CounterRepository defines the storage primitive behind the sequence
// allocator. IncrementAndGet is the sole synchronization point: the
// database executes the increment atomically, so callers never take
// client-side locks.
type CounterRepository interface {
	// IncrementAndGet atomically increments the named counter and returns
	// the new sequence value, creating the counter with sequence 1 if it
	// does not exist yet. The creation path may lose a race with a
	// concurrent creator, in which case the error satisfies
	// errors.Is(err, gorm.ErrDuplicatedKey) and the caller retries the
	// increment against the now-existing row.
	IncrementAndGet(ctx context.Context, name string) (int64, error)
	Find(ctx context.Context, name string) (*models.Counter, error)
	Reset(ctx context.Context, name string) error
	SetActive(ctx context.Context, name string, active bool) error
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) IncrementAndGet(ctx context.Context, name string) (int64, error) {
	var rows []struct {
		Sequence int64
		Active   bool
	}
	err := r.db.WithContext(ctx).
		Raw(`UPDATE counters SET sequence = sequence + 1, updated_at = NOW() WHERE name = ? RETURNING sequence, active`, name).
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) > 0 {
		if !rows[0].Active {
			return 0, ErrCounterInactive
		}
		return rows[0].Sequence, nil
	}

	// No row yet: lazily create the counter already holding its first
	// allocation. Two concurrent creators race here; the loser gets a
	// duplicate-key error and retries the UPDATE path.
	counter := models.Counter{Name: name, Sequence: 1, Active: true}
	if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
		return 0, err
	}
	return 1, nil
}

func (r *counterRepository) Find(ctx context.Context, name string) (*models.Counter, error) {
	var counter models.Counter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// Reset zeroes the sequence and stamps the reset time. This is the only
// operation allowed to move a sequence backwards.
func (r *counterRepository) Reset(ctx context.Context, name string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Counter{}).
		Where("name = ?", name).
		Updates(map[string]any{"sequence": 0, "last_reset": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *counterRepository) SetActive(ctx context.Context, name string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Counter{}).
		Where("name = ?", name).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
