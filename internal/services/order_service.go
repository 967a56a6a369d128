package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/texora/texora-core/internal/audit"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"github.com/texora/texora-core/internal/statemachine"
	"github.com/texora/texora-core/pkg/logger"
	"gorm.io/gorm"
)

// orderCounterName is the counter every order number is minted from
const orderCounterName = "orderId"

// OrderService owns the order lifecycle. Every mutation captures before and
// after snapshots and records an activity log entry; the log write is
// best-effort and never rolls back the order mutation, but a failed order
// number allocation aborts creation, because an order without a legitimate
// number must not exist.
type OrderService struct {
	repo         repository.OrderRepository
	partyRepo    repository.PartyRepository
	qualityRepo  repository.QualityRepository
	sequenceSvc  *SequenceService
	auditSvc     *AuditService
	numberFormat string
}

// NewOrderService creates a new order service
func NewOrderService(
	repo repository.OrderRepository,
	partyRepo repository.PartyRepository,
	qualityRepo repository.QualityRepository,
	sequenceSvc *SequenceService,
	auditSvc *AuditService,
	numberFormat string,
) *OrderService {
	return &OrderService{
		repo:         repo,
		partyRepo:    partyRepo,
		qualityRepo:  qualityRepo,
		sequenceSvc:  sequenceSvc,
		auditSvc:     auditSvc,
		numberFormat: numberFormat,
	}
}

// FindByID gets an order by ID
func (s *OrderService) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// List retrieves orders matching the query
func (s *OrderService) List(ctx context.Context, query *repository.OrderQuery) ([]models.Order, int64, error) {
	return s.repo.List(ctx, query)
}

// Create allocates an order number, computes derived amounts and saves the
// order. Allocation failure aborts the creation and propagates to the
// caller; an allocated number lost to a failed save is consumed for good.
func (s *OrderService) Create(ctx context.Context, actor audit.Actor, order *models.Order) error {
	party, err := s.partyRepo.FindByID(ctx, order.PartyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: party %d", ErrNotFound, order.PartyID)
		}
		return err
	}

	if err := s.validateItems(ctx, order.Items); err != nil {
		return err
	}

	number, err := s.sequenceSvc.NextFormattedSequence(ctx, orderCounterName, s.numberFormat)
	if err != nil {
		return err
	}
	order.OrderNumber = number

	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	for i := range order.Items {
		order.Items[i].Position = i
	}
	order.ComputeDerived()

	if err := s.repo.Create(ctx, order); err != nil {
		return err
	}

	// Best-effort: a failed log write never rolls back the order.
	s.recordAudit(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionCreate,
		ResourceType: ResourceTypeOrder,
		ResourceID:   strconv.FormatUint(uint64(order.ID), 10),
		Success:      true,
		Metadata: map[string]string{
			"order_number": order.OrderNumber,
			"party":        party.Name,
		},
	})
	return nil
}

// Update applies the caller's changes, recomputes derived amounts and logs
// the field-level diff between the stored and the new state
func (s *OrderService) Update(ctx context.Context, actor audit.Actor, order *models.Order) (*models.Order, error) {
	existing, err := s.repo.FindByIDWithDetails(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, order.ID)
		}
		return nil, err
	}
	oldSnapshot := existing.AuditSnapshot()

	if err := s.validateItems(ctx, order.Items); err != nil {
		return nil, err
	}

	// Order numbers are immutable once minted.
	order.OrderNumber = existing.OrderNumber
	order.ComputeDerived()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByIDWithDetails(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionUpdate,
		ResourceType: ResourceTypeOrder,
		ResourceID:   strconv.FormatUint(uint64(order.ID), 10),
		OldSnapshot:  oldSnapshot,
		NewSnapshot:  updated.AuditSnapshot(),
		Success:      true,
		Metadata:     map[string]string{"order_number": updated.OrderNumber},
	})
	return updated, nil
}

// Confirm transitions a pending order to confirmed
func (s *OrderService) Confirm(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventConfirm)
}

// StartProduction moves a confirmed order into production
func (s *OrderService) StartProduction(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventStartProduction)
}

// MarkReady marks an in-production order ready for dispatch
func (s *OrderService) MarkReady(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventMarkReady)
}

// Deliver marks a ready order as delivered
func (s *OrderService) Deliver(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventDeliver)
}

// Cancel cancels an order that has not been delivered
func (s *OrderService) Cancel(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventCancel)
}

// Reopen returns a cancelled order to pending
func (s *OrderService) Reopen(ctx context.Context, actor audit.Actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, statemachine.EventReopen)
}

func (s *OrderService) transition(ctx context.Context, actor audit.Actor, id uint, event string) (*models.Order, error) {
	order, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	oldSnapshot := order.AuditSnapshot()

	if err := statemachine.NewOrderFSM(order).Trigger(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionStatusChange,
		ResourceType: ResourceTypeOrder,
		ResourceID:   strconv.FormatUint(uint64(order.ID), 10),
		OldSnapshot:  oldSnapshot,
		NewSnapshot:  order.AuditSnapshot(),
		Success:      true,
		Metadata:     map[string]string{"order_number": order.OrderNumber, "event": event},
	})
	return order, nil
}

// Delete removes an order and its items
func (s *OrderService) Delete(ctx context.Context, actor audit.Actor, id uint) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, RecordParams{
		Actor:        actor,
		Action:       models.AuditActionDelete,
		ResourceType: ResourceTypeOrder,
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		Success:      true,
		Metadata:     map[string]string{"order_number": order.OrderNumber},
	})
	return nil
}

// validateItems checks quantities and quality references before a save
func (s *OrderService) validateItems(ctx context.Context, items []models.OrderItem) error {
	for i := range items {
		if items[i].Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidArgument, i+1)
		}
		if _, err := s.qualityRepo.FindByID(ctx, items[i].QualityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quality %d", ErrNotFound, items[i].QualityID)
			}
			return err
		}
	}
	return nil
}

// recordAudit appends a log entry without letting a log failure surface to
// the business caller. Record already reports failures to telemetry.
func (s *OrderService) recordAudit(ctx context.Context, params RecordParams) {
	if _, err := s.auditSvc.Record(ctx, params); err != nil {
		logger.Warn("Order audit entry dropped", "order_id", params.ResourceID, "action", params.Action)
	}
}
