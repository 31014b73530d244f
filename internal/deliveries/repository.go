package deliveries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the record does not exist in the store.
var ErrNotFound = errors.New("delivery record not found")

// Repository provides PostgreSQL backed persistence for delivery records.
//
// Every mutation is a single statement, so a transition either lands whole or
// not at all; there is no partial-write state to recover from.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `
	id, client, product, price_cents, quantity, total_cents,
	address, phone, receiver, registered_on, delivered_on,
	out_of_coverage, payment_method, status, created_at, updated_at
`

func scanRecord(row pgx.Row) (*DeliveryRecord, error) {
	var (
		rec           DeliveryRecord
		registeredOn  time.Time
		deliveredOn   *time.Time
		paymentMethod *string
	)
	err := row.Scan(
		&rec.ID, &rec.Client, &rec.Product, &rec.Price, &rec.Quantity, &rec.Total,
		&rec.Address, &rec.Phone, &rec.Receiver, &registeredOn, &deliveredOn,
		&rec.OutOfCoverage, &paymentMethod, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.RegisteredOn = DateOf(registeredOn)
	if deliveredOn != nil {
		d := DateOf(*deliveredOn)
		rec.DeliveredOn = &d
	}
	if paymentMethod != nil {
		pm := PaymentMethod(*paymentMethod)
		rec.PaymentMethod = &pm
	}
	return &rec, nil
}

// Insert stores a new record and returns it with the store-assigned id.
func (r *Repository) Insert(ctx context.Context, rec DeliveryRecord) (*DeliveryRecord, error) {
	query := `
		INSERT INTO deliveries (
			client, product, price_cents, quantity, total_cents,
			address, phone, receiver, registered_on, out_of_coverage, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + recordColumns
	row := r.pool.QueryRow(ctx, query,
		rec.Client, rec.Product, rec.Price, rec.Quantity, rec.Total,
		rec.Address, rec.Phone, rec.Receiver, rec.RegisteredOn.Time,
		rec.OutOfCoverage, rec.Status,
	)
	return scanRecord(row)
}

// Get retrieves a record by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*DeliveryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM deliveries WHERE id = $1`
	return scanRecord(r.pool.QueryRow(ctx, query, id))
}

// List retrieves records matching the filter, ordered by registration date
// then insertion order so repeated queries are stable.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]DeliveryRecord, error) {
	var conditions []string
	var args []any
	argPos := 1

	if filter.Client != nil {
		conditions = append(conditions, fmt.Sprintf("client = $%d", argPos))
		args = append(args, *filter.Client)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("registered_on >= $%d", argPos))
		args = append(args, filter.DateFrom.Time)
		argPos++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("registered_on <= $%d", argPos))
		args = append(args, filter.DateTo.Time)
		argPos++
	}
	if filter.RegisteredOn != nil {
		conditions = append(conditions, fmt.Sprintf("registered_on = $%d", argPos))
		args = append(args, filter.RegisteredOn.Time)
		argPos++
	}
	if filter.DeliveredOn != nil {
		conditions = append(conditions, fmt.Sprintf("delivered_on = $%d", argPos))
		args = append(args, filter.DeliveredOn.Time)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM deliveries %s ORDER BY registered_on, created_at`,
		recordColumns, whereClause,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DeliveryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpdateStatus writes the status and delivery date together in one statement.
// A nil deliveredOn clears the delivery date.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, deliveredOn *Date) error {
	query := `
		UPDATE deliveries
		SET status = $1, delivered_on = $2, updated_at = now()
		WHERE id = $3
	`
	var deliveredArg *time.Time
	if deliveredOn != nil {
		deliveredArg = &deliveredOn.Time
	}
	cmdTag, err := r.pool.Exec(ctx, query, status, deliveredArg, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentMethod assigns the payment method.
func (r *Repository) SetPaymentMethod(ctx context.Context, id uuid.UUID, method PaymentMethod) error {
	query := `
		UPDATE deliveries
		SET payment_method = $1, updated_at = now()
		WHERE id = $2
	`
	cmdTag, err := r.pool.Exec(ctx, query, method, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
