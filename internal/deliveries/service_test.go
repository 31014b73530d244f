package deliveries

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	records map[uuid.UUID]*DeliveryRecord
	order   []uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]*DeliveryRecord)}
}

func (m *memoryStore) Insert(_ context.Context, rec DeliveryRecord) (*DeliveryRecord, error) {
	rec.ID = uuid.New()
	m.records[rec.ID] = &rec
	m.order = append(m.order, rec.ID)
	copied := rec
	return &copied, nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *memoryStore) List(_ context.Context, filter ListFilter) ([]DeliveryRecord, error) {
	var out []DeliveryRecord
	for _, id := range m.order {
		rec := m.records[id]
		if filter.Client != nil && rec.Client != *filter.Client {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && rec.RegisteredOn.Before(filter.DateFrom.Time) {
			continue
		}
		if filter.DateTo != nil && rec.RegisteredOn.After(filter.DateTo.Time) {
			continue
		}
		if filter.RegisteredOn != nil && !rec.RegisteredOn.Equal(filter.RegisteredOn.Time) {
			continue
		}
		if filter.DeliveredOn != nil {
			if rec.DeliveredOn == nil || !rec.DeliveredOn.Equal(filter.DeliveredOn.Time) {
				continue
			}
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status, deliveredOn *Date) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	rec.DeliveredOn = deliveredOn
	return nil
}

func (m *memoryStore) SetPaymentMethod(_ context.Context, id uuid.UUID, method PaymentMethod) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.PaymentMethod = &method
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := NewService(store, DefaultCatalog(), logger)
	return svc, store
}

func validRequest() RegisterRequest {
	coverage := false
	return RegisterRequest{
		Client:        "Natural Care",
		Product:       "Santo Remedio",
		PriceCents:    55000,
		Quantity:      2,
		Address:       "Av. Juárez 123",
		Phone:         "555-010-2233",
		Receiver:      "María López",
		Date:          "2026-08-24",
		OutOfCoverage: &coverage,
	}
}

func TestRegisterFixesTotalAtCreation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, rec.Status)
	assert.Nil(t, rec.DeliveredOn)
	assert.Nil(t, rec.PaymentMethod)
	assert.EqualValues(t, 110000, rec.Total)
	assert.Equal(t, "2026-08-24", rec.RegisteredOn.String())

	// The stored total must not change when the record mutates later.
	store.records[rec.ID].Quantity = 5
	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 110000, got.Total)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr error
	}{
		{"unknown client", func(r *RegisterRequest) { r.Client = "Desconocido" }, ErrUnknownClient},
		{"product of other client", func(r *RegisterRequest) { r.Product = "Producto X" }, ErrProductNotInCatalog},
		{"zero price", func(r *RegisterRequest) { r.PriceCents = 0 }, nil},
		{"negative quantity", func(r *RegisterRequest) { r.Quantity = -1 }, nil},
		{"missing receiver", func(r *RegisterRequest) { r.Receiver = "" }, nil},
		{"malformed date", func(r *RegisterRequest) { r.Date = "24/08/2026" }, nil},
		{"missing coverage flag", func(r *RegisterRequest) { r.OutOfCoverage = nil }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Register(ctx, req)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestMarkDeliveredStampsToday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pinned, err := ParseDate("2026-08-28")
	require.NoError(t, err)
	svc.SetClock(func() Date { return pinned })

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	delivered, err := svc.MarkDelivered(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredOn)
	assert.Equal(t, "2026-08-28", delivered.DeliveredOn.String())

	// Already delivered records cannot be delivered again.
	_, err = svc.MarkDelivered(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelOnlyFromPending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.DeliveredOn)

	_, err = svc.Cancel(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReopenClearsDeliveryDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.MarkDelivered(ctx, rec.ID)
	require.NoError(t, err)

	reopened, err := svc.Reopen(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, reopened.Status)
	assert.Nil(t, reopened.DeliveredOn)

	// A pending record has nothing to reopen.
	_, err = svc.Reopen(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetPaymentMethod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	updated, err := svc.SetPaymentMethod(ctx, rec.ID, PaymentTransfer)
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, PaymentTransfer, *updated.PaymentMethod)

	// Changing an already assigned method is allowed.
	updated, err = svc.SetPaymentMethod(ctx, rec.ID, PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, PaymentCash, *updated.PaymentMethod)

	_, err = svc.SetPaymentMethod(ctx, rec.ID, PaymentMethod("Cheque"))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestDeleteIsPermanent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))

	_, err = svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationsBumpReportCache(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inv := &countingInvalidator{}
	svc.SetInvalidator(inv)

	rec, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.MarkDelivered(ctx, rec.ID)
	require.NoError(t, err)
	_, err = svc.SetPaymentMethod(ctx, rec.ID, PaymentCash)
	require.NoError(t, err)
	_, err = svc.Reopen(ctx, rec.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, rec.ID))

	assert.Equal(t, 5, inv.bumps)
}
