package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
)

// RecordSource supplies delivery records to the reporting engines. The
// deliveries repository implements it.
type RecordSource interface {
	List(ctx context.Context, filter deliveries.ListFilter) ([]deliveries.DeliveryRecord, error)
}

// Exporter renders report documents. The export.PDFExporter implements it.
type Exporter interface {
	RenderWeekly(ctx context.Context, summary *WeeklySummary) ([]byte, error)
	RenderDaily(ctx context.Context, date deliveries.Date, records []deliveries.DeliveryRecord) ([]byte, error)
	RenderRecord(ctx context.Context, rec *deliveries.DeliveryRecord) ([]byte, error)
}

// Service assembles reports from stored records: it queries, reduces through
// the pure engines and hands documents to the exporter. Rendered weekly and
// daily PDFs are cached until the next delivery mutation; identical
// concurrent renders collapse into one.
type Service struct {
	source   RecordSource
	exporter Exporter
	cache    *Cache
	renders  singleflight.Group
}

// NewService constructs a report service.
func NewService(source RecordSource, exporter Exporter, cache *Cache) *Service {
	return &Service{
		source:   source,
		exporter: exporter,
		cache:    cache,
	}
}

// WeeklySummary computes the cash reconciliation for the inclusive
// registration date range [start, end].
func (s *Service) WeeklySummary(ctx context.Context, start, end deliveries.Date) (*WeeklySummary, error) {
	if start.After(end.Time) {
		return nil, ErrInvalidDateRange
	}

	records, err := s.source.List(ctx, deliveries.ListFilter{
		DateFrom: &start,
		DateTo:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	return ComputeWeeklySummary(records, start, end)
}

// WeeklyPDF renders the weekly cash report document.
func (s *Service) WeeklyPDF(ctx context.Context, start, end deliveries.Date) ([]byte, error) {
	if start.After(end.Time) {
		return nil, ErrInvalidDateRange
	}

	key, err := s.cache.BuildKey(ctx, "reports", "weekly", start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}
	return s.renderCached(ctx, key, func(ctx context.Context) ([]byte, error) {
		summary, err := s.WeeklySummary(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return s.exporter.RenderWeekly(ctx, summary)
	})
}

// Daily returns the deliveries completed on the given date.
func (s *Service) Daily(ctx context.Context, date deliveries.Date) ([]deliveries.DeliveryRecord, error) {
	records, err := s.source.List(ctx, deliveries.ListFilter{DeliveredOn: &date})
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	return records, nil
}

// DailyPDF renders the daily report document.
func (s *Service) DailyPDF(ctx context.Context, date deliveries.Date) ([]byte, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "daily", date.String())
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}
	return s.renderCached(ctx, key, func(ctx context.Context) ([]byte, error) {
		records, err := s.Daily(ctx, date)
		if err != nil {
			return nil, err
		}
		return s.exporter.RenderDaily(ctx, date, records)
	})
}

// Specific returns a client's deliveries registered on the given date.
func (s *Service) Specific(ctx context.Context, client string, date deliveries.Date) ([]deliveries.DeliveryRecord, error) {
	records, err := s.source.List(ctx, deliveries.ListFilter{
		Client:       &client,
		RegisteredOn: &date,
	})
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	return records, nil
}

// RecordPDF renders the standalone document for one delivery.
func (s *Service) RecordPDF(ctx context.Context, rec *deliveries.DeliveryRecord) ([]byte, error) {
	return s.exporter.RenderRecord(ctx, rec)
}

func (s *Service) renderCached(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	result, err, _ := s.renders.Do(key, func() (any, error) {
		return s.cache.FetchBytes(ctx, key, loader)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
