package deliveries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okngoo/okngoo-deliveries/internal/money"
)

// Store is the persistence capability the service depends on. The pgx
// Repository implements it; tests substitute an in-memory double.
type Store interface {
	Insert(ctx context.Context, rec DeliveryRecord) (*DeliveryRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error)
	List(ctx context.Context, filter ListFilter) ([]DeliveryRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, deliveredOn *Date) error
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Invalidator is notified after every successful mutation so cached report
// output can be discarded.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Common errors.
var (
	ErrUnknownClient        = errors.New("client is not in the catalog")
	ErrProductNotInCatalog  = errors.New("product does not belong to the client's catalog")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// Service implements the delivery lifecycle.
type Service struct {
	store       Store
	catalog     *Catalog
	validate    *validator.Validate
	logger      *slog.Logger
	invalidator Invalidator
	today       func() Date
}

// NewService constructs a delivery service.
func NewService(store Store, catalog *Catalog, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
		today:    Today,
	}
}

// SetInvalidator sets the report cache invalidator.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// SetClock overrides the calendar used to stamp delivery dates. Tests use it
// to pin "today".
func (s *Service) SetClock(today func() Date) {
	s.today = today
}

func (s *Service) bumpCaches(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("report cache invalidation failed", slog.Any("error", err))
	}
}

// ============================================================================
// REGISTRATION
// ============================================================================

// Register validates the entry form and stores a new record with status
// Pendiente. The total is fixed here as price times quantity and is never
// recomputed afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*DeliveryRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	registeredOn, err := ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("parse registration date: %w", err)
	}

	if !s.catalog.HasClient(req.Client) {
		return nil, ErrUnknownClient
	}
	if !s.catalog.Allows(req.Client, req.Product) {
		return nil, ErrProductNotInCatalog
	}

	price := money.Cents(req.PriceCents)
	rec := DeliveryRecord{
		Client:        req.Client,
		Product:       req.Product,
		Price:         price,
		Quantity:      req.Quantity,
		Total:         money.Multiply(price, req.Quantity),
		Address:       req.Address,
		Phone:         req.Phone,
		Receiver:      req.Receiver,
		RegisteredOn:  registeredOn,
		OutOfCoverage: *req.OutOfCoverage,
		Status:        StatusPending,
	}

	created, err := s.store.Insert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert delivery: %w", err)
	}
	s.bumpCaches(ctx)
	return created, nil
}

// ============================================================================
// LIFECYCLE TRANSITIONS
// ============================================================================

// MarkDelivered moves a pending record to Entregado and stamps today's date
// as the delivery date. Status and date travel in one store request, so a
// failed write changes nothing.
func (s *Service) MarkDelivered(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanDeliver() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, StatusDelivered)
	}

	deliveredOn := s.today()
	if err := s.store.UpdateStatus(ctx, id, StatusDelivered, &deliveredOn); err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	s.bumpCaches(ctx)
	return s.store.Get(ctx, id)
}

// Cancel moves a pending record to Cancelado.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanCancel() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, StatusCancelled)
	}

	if err := s.store.UpdateStatus(ctx, id, StatusCancelled, nil); err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	s.bumpCaches(ctx)
	return s.store.Get(ctx, id)
}

// Reopen moves a delivered or cancelled record back to Pendiente. The
// delivery date is cleared so a record is dated exactly when delivered.
func (s *Service) Reopen(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanReopen() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, StatusPending)
	}

	if err := s.store.UpdateStatus(ctx, id, StatusPending, nil); err != nil {
		return nil, fmt.Errorf("reopen: %w", err)
	}
	s.bumpCaches(ctx)
	return s.store.Get(ctx, id)
}

// SetPaymentMethod records how the customer paid. Allowed in any status and
// applied immediately.
func (s *Service) SetPaymentMethod(ctx context.Context, id uuid.UUID, method PaymentMethod) (*DeliveryRecord, error) {
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if err := s.store.SetPaymentMethod(ctx, id, method); err != nil {
		return nil, fmt.Errorf("set payment method: %w", err)
	}
	s.bumpCaches(ctx)
	return s.store.Get(ctx, id)
}

// Delete removes the record permanently. Not recoverable.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	s.bumpCaches(ctx)
	return nil
}

// ============================================================================
// QUERY OPERATIONS
// ============================================================================

// Get retrieves a single record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	return s.store.Get(ctx, id)
}

// List retrieves records for the tracking view, optionally narrowed to a
// registration date range.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]DeliveryRecord, error) {
	return s.store.List(ctx, filter)
}

// Catalog exposes the configured client and product lists.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}
