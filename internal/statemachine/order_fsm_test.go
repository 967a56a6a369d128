package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/texora/texora-core/internal/models"
)

func TestOrderFSM_HappyPath(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}
	ctx := context.Background()

	steps := []struct {
		event string
		want  string
	}{
		{EventConfirm, models.OrderStatusConfirmed},
		{EventStartProduction, models.OrderStatusInProduction},
		{EventMarkReady, models.OrderStatusReady},
		{EventDeliver, models.OrderStatusDelivered},
	}
	for _, step := range steps {
		err := NewOrderFSM(order).Trigger(ctx, step.event)
		assert.NoError(t, err)
		assert.Equal(t, step.want, order.Status)
	}
}

func TestOrderFSM_InvalidTransitions(t *testing.T) {
	cases := []struct {
		status string
		event  string
	}{
		{models.OrderStatusPending, EventDeliver},
		{models.OrderStatusPending, EventStartProduction},
		{models.OrderStatusConfirmed, EventConfirm},
		{models.OrderStatusDelivered, EventCancel},
		{models.OrderStatusDelivered, EventConfirm},
		{models.OrderStatusCancelled, EventDeliver},
		{models.OrderStatusPending, EventReopen},
		{models.OrderStatusPending, "unknown_event"},
	}
	for _, tc := range cases {
		order := &models.Order{Status: tc.status}
		err := NewOrderFSM(order).Trigger(context.Background(), tc.event)
		assert.Error(t, err, "%s from %s must be rejected", tc.event, tc.status)
		assert.Equal(t, tc.status, order.Status, "status must be untouched on rejection")
	}
}

func TestOrderFSM_CancelFromEarlyStates(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusInProduction,
	} {
		order := &models.Order{Status: status}
		err := NewOrderFSM(order).Trigger(context.Background(), EventCancel)
		assert.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, models.OrderStatusCancelled, order.Status)
	}
}

func TestOrderFSM_CancelBlockedAfterDispatch(t *testing.T) {
	for _, status := range []string{models.OrderStatusReady, models.OrderStatusDelivered} {
		order := &models.Order{Status: status}
		err := NewOrderFSM(order).Trigger(context.Background(), EventCancel)
		assert.Error(t, err, "cancel from %s", status)
	}
}

func TestOrderFSM_ReopenReturnsToPending(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusCancelled}
	err := NewOrderFSM(order).Trigger(context.Background(), EventReopen)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderFSM_Can(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}
	machine := NewOrderFSM(order)

	assert.True(t, machine.Can(EventConfirm))
	assert.True(t, machine.Can(EventCancel))
	assert.False(t, machine.Can(EventDeliver))
	assert.Equal(t, models.OrderStatusPending, machine.Current())
}
