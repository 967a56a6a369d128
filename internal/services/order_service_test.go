package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/texora/texora-core/internal/audit"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"gorm.io/gorm"
)

// Mock OrderRepository
type mockOrderRepository struct {
	orders map[uint]*models.Order

	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Order, error)
	mockCreate              func(ctx context.Context, order *models.Order) error
	mockUpdate              func(ctx context.Context, order *models.Order) error
	mockDelete              func(ctx context.Context, id uint) error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uint]*models.Order)}
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Order, error) {
	if m.mockFindByIDWithDetails != nil {
		return m.mockFindByIDWithDetails(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *mockOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, order)
	}
	order.ID = uint(len(m.orders) + 1)
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) Update(ctx context.Context, order *models.Order) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, order)
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepository) List(ctx context.Context, query *repository.OrderQuery) ([]models.Order, int64, error) {
	return nil, 0, nil
}

// Mock PartyRepository
type mockPartyRepository struct {
	parties map[uint]*models.Party

	mockCreate func(ctx context.Context, party *models.Party) error
	mockUpdate func(ctx context.Context, party *models.Party) error
}

func newMockPartyRepository(parties ...*models.Party) *mockPartyRepository {
	m := &mockPartyRepository{parties: make(map[uint]*models.Party)}
	for _, p := range parties {
		m.parties[p.ID] = p
	}
	return m
}

func (m *mockPartyRepository) FindByID(ctx context.Context, id uint) (*models.Party, error) {
	party, ok := m.parties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return party, nil
}

func (m *mockPartyRepository) Create(ctx context.Context, party *models.Party) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, party)
	}
	party.ID = uint(len(m.parties) + 1)
	m.parties[party.ID] = party
	return nil
}

func (m *mockPartyRepository) Update(ctx context.Context, party *models.Party) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, party)
	}
	m.parties[party.ID] = party
	return nil
}

func (m *mockPartyRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Party, int64, error) {
	return nil, 0, nil
}

// Mock QualityRepository
type mockQualityRepository struct {
	qualities map[uint]*models.Quality
}

func newMockQualityRepository(qualities ...*models.Quality) *mockQualityRepository {
	m := &mockQualityRepository{qualities: make(map[uint]*models.Quality)}
	for _, q := range qualities {
		m.qualities[q.ID] = q
	}
	return m
}

func (m *mockQualityRepository) FindByID(ctx context.Context, id uint) (*models.Quality, error) {
	quality, ok := m.qualities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quality, nil
}

func (m *mockQualityRepository) FindByName(ctx context.Context, name string) (*models.Quality, error) {
	for _, q := range m.qualities {
		if q.Name == name {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQualityRepository) Create(ctx context.Context, quality *models.Quality) error {
	m.qualities[quality.ID] = quality
	return nil
}

func (m *mockQualityRepository) Update(ctx context.Context, quality *models.Quality) error {
	m.qualities[quality.ID] = quality
	return nil
}

func (m *mockQualityRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Quality, int64, error) {
	return nil, 0, nil
}

type orderServiceFixture struct {
	service     *OrderService
	orderRepo   *mockOrderRepository
	counterRepo *mockCounterRepository
	auditRepo   *mockAuditLogRepository
}

func newOrderServiceFixture() *orderServiceFixture {
	orderRepo := newMockOrderRepository()
	partyRepo := newMockPartyRepository(
		&models.Party{ID: 12, Name: "Sharma Textiles", PartyType: models.PartyTypeCustomer},
	)
	qualityRepo := newMockQualityRepository(
		&models.Quality{ID: 3, Name: "Cotton 40s", Unit: "m"},
	)
	counterRepo := newMockCounterRepository()
	auditRepo := &mockAuditLogRepository{}

	auditSvc := NewAuditService(auditRepo)
	auditSvc.RegisterDiffer(ResourceTypeOrder, NewOrderDiffer())

	return &orderServiceFixture{
		service: NewOrderService(
			orderRepo, partyRepo, qualityRepo,
			NewSequenceService(counterRepo), auditSvc, "ORD-#####",
		),
		orderRepo:   orderRepo,
		counterRepo: counterRepo,
		auditRepo:   auditRepo,
	}
}

func testActor() audit.Actor {
	return audit.Actor{ID: "7", Name: "Asha", Role: "admin"}
}

func rate(v float64) *float64 { return &v }

func TestOrderCreate_AllocatesNumberAndLogs(t *testing.T) {
	f := newOrderServiceFixture()
	order := &models.Order{
		PartyID: 12,
		Rate:    rate(145.50),
		Items: []models.OrderItem{
			{QualityID: 3, Quantity: 100},
		},
	}

	err := f.service.Create(context.Background(), testActor(), order)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-00001", order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.IsZero())
	assert.NotNil(t, order.TotalAmount)
	assert.Equal(t, 14550.0, *order.TotalAmount)

	assert.Len(t, f.auditRepo.entries, 1)
	entry := f.auditRepo.entries[0]
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	assert.Equal(t, models.SeverityInfo, entry.Severity)
	assert.Equal(t, "ORD-00001", entry.Metadata["order_number"])
	assert.Equal(t, "Sharma Textiles", entry.Metadata["party"])
}

func TestOrderCreate_SequentialNumbers(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	for _, want := range []string{"ORD-00001", "ORD-00002", "ORD-00003"} {
		order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
		assert.NoError(t, f.service.Create(ctx, testActor(), order))
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestOrderCreate_AllocationFailureAborts(t *testing.T) {
	f := newOrderServiceFixture()
	f.counterRepo.mockIncrementAndGet = func(ctx context.Context, name string) (int64, error) {
		return 0, errors.New("connection refused")
	}

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	err := f.service.Create(context.Background(), testActor(), order)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, f.orderRepo.orders, "order must not be saved without a number")
	assert.Empty(t, f.auditRepo.entries)
}

func TestOrderCreate_UnknownParty(t *testing.T) {
	f := newOrderServiceFixture()
	order := &models.Order{PartyID: 999}

	err := f.service.Create(context.Background(), testActor(), order)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderCreate_RejectsNonPositiveQuantity(t *testing.T) {
	f := newOrderServiceFixture()
	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 0}}}

	err := f.service.Create(context.Background(), testActor(), order)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOrderCreate_UnknownQuality(t *testing.T) {
	f := newOrderServiceFixture()
	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 404, Quantity: 10}}}

	err := f.service.Create(context.Background(), testActor(), order)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderUpdate_LogsFieldDiff(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{
		PartyID: 12,
		Party:   models.Party{ID: 12, Name: "Sharma Textiles"},
		Rate:    rate(145.50),
		Items:   []models.OrderItem{{QualityID: 3, Quantity: 100}},
	}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	changed := *order
	changed.Items = []models.OrderItem{{QualityID: 3, Quantity: 120}}
	updated, err := f.service.Update(ctx, testActor(), &changed)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderNumber, updated.OrderNumber)

	assert.Len(t, f.auditRepo.entries, 2)
	entry := f.auditRepo.entries[1]
	assert.Equal(t, models.AuditActionUpdate, entry.Action)
	assert.NotNil(t, entry.Diff)
	assert.Contains(t, entry.Summary, "Item 1: Quantity: 100 → 120, Amount: ₹14550.00 → ₹17460.00")
}

func TestOrderUpdate_CannotChangeOrderNumber(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	changed := *order
	changed.OrderNumber = "ORD-99999"
	updated, err := f.service.Update(ctx, testActor(), &changed)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-00001", updated.OrderNumber)
}

func TestOrderUpdate_UnknownOrder(t *testing.T) {
	f := newOrderServiceFixture()

	_, err := f.service.Update(context.Background(), testActor(), &models.Order{ID: 404})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderUpdate_AuditFailureDoesNotFailUpdate(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	f.auditRepo.mockAppend = func(ctx context.Context, entry *models.AuditLog) error {
		return errors.New("disk full")
	}

	changed := *order
	changed.Notes = strPtr("rush dispatch")
	updated, err := f.service.Update(ctx, testActor(), &changed)
	assert.NoError(t, err, "a failed log write must not roll back the update")
	assert.Equal(t, "rush dispatch", *updated.Notes)
}

func TestOrderTransition_ConfirmLogsStatusChange(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	confirmed, err := f.service.Confirm(ctx, testActor(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)

	entry := f.auditRepo.entries[len(f.auditRepo.entries)-1]
	assert.Equal(t, models.AuditActionStatusChange, entry.Action)
	assert.Equal(t, models.SeverityWarning, entry.Severity)
	assert.Contains(t, entry.Summary, `Status: "pending" → "confirmed"`)
}

func TestOrderTransition_InvalidFromState(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	// pending order cannot be delivered
	_, err := f.service.Deliver(ctx, testActor(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOrderTransition_FullLifecycle(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	steps := []struct {
		move func(context.Context, audit.Actor, uint) (*models.Order, error)
		want string
	}{
		{f.service.Confirm, models.OrderStatusConfirmed},
		{f.service.StartProduction, models.OrderStatusInProduction},
		{f.service.MarkReady, models.OrderStatusReady},
		{f.service.Deliver, models.OrderStatusDelivered},
	}
	for _, step := range steps {
		got, err := step.move(ctx, testActor(), order.ID)
		assert.NoError(t, err)
		assert.Equal(t, step.want, got.Status)
	}
}

func TestOrderDelete_LogsWithOrderNumber(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	order := &models.Order{PartyID: 12, Items: []models.OrderItem{{QualityID: 3, Quantity: 10}}}
	assert.NoError(t, f.service.Create(ctx, testActor(), order))

	assert.NoError(t, f.service.Delete(ctx, testActor(), order.ID))
	assert.Empty(t, f.orderRepo.orders)

	entry := f.auditRepo.entries[len(f.auditRepo.entries)-1]
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, models.SeverityWarning, entry.Severity)
	assert.Equal(t, "ORD-00001", entry.Metadata["order_number"])
}

func strPtr(s string) *string { return &s }
