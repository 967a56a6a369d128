package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/texora/texora-core/internal/models"
)

// Order lifecycle events
const (
	EventConfirm         = "confirm"
	EventStartProduction = "start_production"
	EventMarkReady       = "mark_ready"
	EventDeliver         = "deliver"
	EventCancel          = "cancel"
	EventReopen          = "reopen"
)

// OrderFSM wraps an order with its state machine
type OrderFSM struct {
	order *models.Order
	fsm   *fsm.FSM
}

// NewOrderFSM creates a new order state machine seeded with the order's
// current status
func NewOrderFSM(order *models.Order) *OrderFSM {
	ofsm := &OrderFSM{
		order: order,
	}

	ofsm.fsm = fsm.NewFSM(
		order.Status,
		fsm.Events{
			// pending → confirmed
			{Name: EventConfirm, Src: []string{models.OrderStatusPending}, Dst: models.OrderStatusConfirmed},

			// confirmed → in_production
			{Name: EventStartProduction, Src: []string{models.OrderStatusConfirmed}, Dst: models.OrderStatusInProduction},

			// in_production → ready
			{Name: EventMarkReady, Src: []string{models.OrderStatusInProduction}, Dst: models.OrderStatusReady},

			// ready → delivered
			{Name: EventDeliver, Src: []string{models.OrderStatusReady}, Dst: models.OrderStatusDelivered},

			// pending/confirmed/in_production → cancelled
			{Name: EventCancel, Src: []string{models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusInProduction}, Dst: models.OrderStatusCancelled},

			// cancelled → pending (reopen)
			{Name: EventReopen, Src: []string{models.OrderStatusCancelled}, Dst: models.OrderStatusPending},
		},
		fsm.Callbacks{},
	)

	return ofsm
}

// Trigger fires a lifecycle event and writes the resulting status back to
// the order
func (o *OrderFSM) Trigger(ctx context.Context, event string) error {
	if !o.guard(event) {
		return fmt.Errorf("order cannot %s in current state: %s", event, o.order.Status)
	}

	if err := o.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s order: %w", event, err)
	}

	o.order.Status = o.fsm.Current()
	return nil
}

// Current returns the current state
func (o *OrderFSM) Current() string {
	return o.fsm.Current()
}

// Can checks if a transition is possible
func (o *OrderFSM) Can(event string) bool {
	return o.fsm.Can(event)
}

// guard consults the order's own transition predicates so domain rules stay
// on the model
func (o *OrderFSM) guard(event string) bool {
	switch event {
	case EventConfirm:
		return o.order.MayConfirm()
	case EventStartProduction:
		return o.order.MayStartProduction()
	case EventMarkReady:
		return o.order.MayMarkReady()
	case EventDeliver:
		return o.order.MayDeliver()
	case EventCancel:
		return o.order.MayCancel()
	case EventReopen:
		return o.order.MayReopen()
	default:
		return false
	}
}
