package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Counter  CounterRepository
	AuditLog AuditLogRepository
	Order    OrderRepository
	Party    PartyRepository
	Quality  QualityRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Counter:  NewCounterRepository(db),
		AuditLog: NewAuditLogRepository(db),
		Order:    NewOrderRepository(db),
		Party:    NewPartyRepository(db),
		Quality:  NewQualityRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the page size, clamped to a sane default
func (q *ListQuery) Limit() int {
	if q.PerPage < 1 {
		return 20
	}
	return q.PerPage
}
