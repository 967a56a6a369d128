package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/texora/texora-core/internal/audit"
)

func fv(v float64) *float64 { return &v }

func TestComputeDerived_ItemRateOverridesOrderRate(t *testing.T) {
	order := &Order{
		Rate: fv(100),
		Items: []OrderItem{
			{Quantity: 10},               // falls back to the order rate
			{Quantity: 5, Rate: fv(200)}, // own rate wins
		},
	}

	order.ComputeDerived()

	assert.Equal(t, 1000.0, *order.Items[0].Amount)
	assert.Equal(t, 1000.0, *order.Items[1].Amount)
	assert.Equal(t, 2000.0, *order.TotalAmount)
}

func TestComputeDerived_NoRatesYieldsZeroTotal(t *testing.T) {
	order := &Order{Items: []OrderItem{{Quantity: 10}}}
	order.ComputeDerived()
	assert.Equal(t, 0.0, *order.TotalAmount)
}

func TestOrderAuditSnapshot_References(t *testing.T) {
	agentID := uint(4)
	order := &Order{
		Status:  OrderStatusPending,
		PartyID: 12,
		Party:   Party{ID: 12, Name: "Sharma Textiles"},
		AgentID: &agentID,
		Items: []OrderItem{
			{QualityID: 3, Quality: Quality{ID: 3, Name: "Cotton 40s"}, Quantity: 100, Unit: "m"},
		},
	}

	snap := order.AuditSnapshot()

	assert.Equal(t, audit.Ref{ID: "12", Name: "Sharma Textiles"}, snap["party"])
	// agent association not loaded: the ref carries the id only
	assert.Equal(t, audit.Ref{ID: "4"}, snap["agent"])

	items, ok := snap["items"].([]audit.Snapshot)
	assert.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, audit.Ref{ID: "3", Name: "Cotton 40s"}, items[0]["quality"])
	assert.Equal(t, 100.0, items[0]["quantity"])
}

func TestOrderAuditSnapshot_UnsetAgentIsNil(t *testing.T) {
	order := &Order{PartyID: 12}
	snap := order.AuditSnapshot()
	assert.Nil(t, snap["agent"])
}

func TestMayPredicates(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).MayConfirm())
	assert.False(t, (&Order{Status: OrderStatusDelivered}).MayConfirm())
	assert.True(t, (&Order{Status: OrderStatusInProduction}).MayCancel())
	assert.False(t, (&Order{Status: OrderStatusReady}).MayCancel())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).MayReopen())
}
