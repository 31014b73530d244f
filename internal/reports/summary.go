// Package reports implements the date-scoped reporting engines: the weekly
// cash reconciliation, the daily delivered-orders report and the per-client
// specific report.
package reports

import (
	"errors"
	"sort"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/money"
)

// Flat delivery fee per order, by coverage.
const (
	StandardDeliveryFee      money.Cents = 6500  // $65.00
	OutOfCoverageDeliveryFee money.Cents = 10000 // $100.00
)

// ErrInvalidDateRange indicates the start date falls after the end date.
var ErrInvalidDateRange = errors.New("start date must not be after end date")

// DeliveryFee returns the flat fee owed for one order.
func DeliveryFee(rec deliveries.DeliveryRecord) money.Cents {
	if rec.OutOfCoverage {
		return OutOfCoverageDeliveryFee
	}
	return StandardDeliveryFee
}

// NetAfterFee returns the order total minus its delivery fee, the per-row
// figure shown on the weekly report.
func NetAfterFee(rec deliveries.DeliveryRecord) money.Cents {
	return rec.Total - DeliveryFee(rec)
}

// WeeklySummary is the cash reconciliation for a date range: how much was
// sold, split by payment method, what delivery cost the operation keeps, and
// the net amount payable back to the client.
type WeeklySummary struct {
	StartDate deliveries.Date
	EndDate   deliveries.Date

	Records []deliveries.DeliveryRecord

	TotalSales         money.Cents
	TotalTransferSales money.Cents
	TotalCashSales     money.Cents
	TotalDeliveryCost  money.Cents
	TotalDeliveries    int
	NetTotal           money.Cents
}

// ComputeWeeklySummary reduces a record set to the weekly cash summary.
//
// The input is expected to be pre-filtered to registration dates within
// [start, end]; only records with status Entregado count. The working set is
// sorted by delivery date ascending, stable so ties keep query order. Pure
// function: same input, same output, no I/O.
func ComputeWeeklySummary(records []deliveries.DeliveryRecord, start, end deliveries.Date) (*WeeklySummary, error) {
	if start.After(end.Time) {
		return nil, ErrInvalidDateRange
	}

	delivered := make([]deliveries.DeliveryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == deliveries.StatusDelivered {
			delivered = append(delivered, rec)
		}
	}

	sort.SliceStable(delivered, func(i, j int) bool {
		di, dj := delivered[i].DeliveredOn, delivered[j].DeliveredOn
		if di == nil || dj == nil {
			return dj == nil && di != nil
		}
		return di.Before(dj.Time)
	})

	summary := &WeeklySummary{
		StartDate:       start,
		EndDate:         end,
		Records:         delivered,
		TotalDeliveries: len(delivered),
	}

	for _, rec := range delivered {
		summary.TotalSales += rec.Total
		if rec.PaymentMethod != nil {
			switch *rec.PaymentMethod {
			case deliveries.PaymentTransfer:
				summary.TotalTransferSales += rec.Total
			case deliveries.PaymentCash:
				summary.TotalCashSales += rec.Total
			}
		}
		summary.TotalDeliveryCost += DeliveryFee(rec)
	}
	summary.NetTotal = summary.TotalSales - summary.TotalDeliveryCost

	return summary, nil
}

// FilterByDeliveryDate keeps records delivered on the given date. Used by the
// daily report.
func FilterByDeliveryDate(records []deliveries.DeliveryRecord, date deliveries.Date) []deliveries.DeliveryRecord {
	out := make([]deliveries.DeliveryRecord, 0, len(records))
	for _, rec := range records {
		if rec.DeliveredOn != nil && rec.DeliveredOn.Equal(date.Time) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByClientAndDate keeps records registered by the given client on the
// given date. Used by the specific report.
func FilterByClientAndDate(records []deliveries.DeliveryRecord, client string, date deliveries.Date) []deliveries.DeliveryRecord {
	out := make([]deliveries.DeliveryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Client == client && rec.RegisteredOn.Equal(date.Time) {
			out = append(out, rec)
		}
	}
	return out
}

// SortByRegistrationDate orders records by registration date ascending,
// stable. The daily PDF lists rows in this order.
func SortByRegistrationDate(records []deliveries.DeliveryRecord) []deliveries.DeliveryRecord {
	out := make([]deliveries.DeliveryRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredOn.Before(out[j].RegisteredOn.Time)
	})
	return out
}
