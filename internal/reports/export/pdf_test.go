package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/reports"
)

type captureClient struct {
	html string
}

func (c *captureClient) RenderHTML(_ context.Context, html string) ([]byte, error) {
	c.html = html
	return []byte("%PDF-stub"), nil
}

func mustDate(t *testing.T, s string) deliveries.Date {
	t.Helper()
	d, err := deliveries.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleRecord(t *testing.T) deliveries.DeliveryRecord {
	t.Helper()
	delivered := mustDate(t, "2026-08-26")
	payment := deliveries.PaymentTransfer
	return deliveries.DeliveryRecord{
		Client:        "Natural Care",
		Product:       "Dúo Funjifin",
		Price:         44500,
		Quantity:      2,
		Total:         89000,
		Address:       "Calle 5 de Mayo 44",
		Phone:         "555-884-1901",
		Receiver:      "Jorge Ramírez",
		RegisteredOn:  mustDate(t, "2026-08-24"),
		DeliveredOn:   &delivered,
		OutOfCoverage: true,
		PaymentMethod: &payment,
		Status:        deliveries.StatusDelivered,
	}
}

func TestBuildWeeklyPayload(t *testing.T) {
	exporter, err := NewPDFExporter(&captureClient{})
	require.NoError(t, err)

	rec := sampleRecord(t)
	summary, err := reports.ComputeWeeklySummary(
		[]deliveries.DeliveryRecord{rec},
		mustDate(t, "2026-08-24"), mustDate(t, "2026-08-30"),
	)
	require.NoError(t, err)

	payload := exporter.BuildWeeklyPayload(summary)

	assert.Equal(t, "2026-08-24", payload.StartDate)
	assert.Equal(t, "2026-08-30", payload.EndDate)
	assert.Equal(t, "$890.00", payload.TotalSales)
	assert.Equal(t, "$890.00", payload.TotalTransferSales)
	assert.Equal(t, "$0.00", payload.TotalCashSales)
	assert.Equal(t, "$100.00", payload.TotalDeliveryCost)
	assert.Equal(t, 1, payload.TotalDeliveries)
	assert.Equal(t, "$790.00", payload.NetTotal)

	require.Len(t, payload.Rows, 1)
	row := payload.Rows[0]
	assert.Equal(t, "Jorge Ramírez", row.Receiver)
	assert.Equal(t, "Sí", row.OutOfCoverage)
	assert.Equal(t, "$100.00", row.Fee)
	assert.Equal(t, "$790.00", row.NetAfterFee)
	assert.Equal(t, "Transferencia", row.PaymentMethod)
	assert.Equal(t, "2026-08-26", row.DeliveryDate)
}

func TestBuildDailyPayloadPlaceholders(t *testing.T) {
	exporter, err := NewPDFExporter(&captureClient{})
	require.NoError(t, err)

	pending := sampleRecord(t)
	pending.Status = deliveries.StatusPending
	pending.DeliveredOn = nil
	pending.PaymentMethod = nil
	pending.OutOfCoverage = false

	payload := exporter.BuildDailyPayload(mustDate(t, "2026-08-24"), []deliveries.DeliveryRecord{pending})

	assert.Equal(t, "2026-08-24", payload.Date)
	require.Len(t, payload.Rows, 1)
	row := payload.Rows[0]
	assert.Equal(t, "Sin especificar", row.DeliveredOn)
	assert.Equal(t, "No especificado", row.PaymentMethod)
	assert.Equal(t, "No", row.OutOfCoverage)
}

func TestBuildDailyPayloadSortsByRegistration(t *testing.T) {
	exporter, err := NewPDFExporter(&captureClient{})
	require.NoError(t, err)

	late := sampleRecord(t)
	late.RegisteredOn = mustDate(t, "2026-08-27")
	late.Receiver = "Segundo"
	early := sampleRecord(t)
	early.RegisteredOn = mustDate(t, "2026-08-25")
	early.Receiver = "Primero"

	payload := exporter.BuildDailyPayload(mustDate(t, "2026-08-27"), []deliveries.DeliveryRecord{late, early})

	require.Len(t, payload.Rows, 2)
	assert.Equal(t, "Primero", payload.Rows[0].Receiver)
	assert.Equal(t, "Segundo", payload.Rows[1].Receiver)
}

func TestRenderWeeklyProducesDocument(t *testing.T) {
	client := &captureClient{}
	exporter, err := NewPDFExporter(client)
	require.NoError(t, err)

	rec := sampleRecord(t)
	summary, err := reports.ComputeWeeklySummary(
		[]deliveries.DeliveryRecord{rec},
		mustDate(t, "2026-08-24"), mustDate(t, "2026-08-30"),
	)
	require.NoError(t, err)

	pdf, err := exporter.RenderWeekly(context.Background(), summary)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)

	assert.True(t, strings.Contains(client.html, "Jorge Ramírez"))
	assert.True(t, strings.Contains(client.html, "$890.00"))
	assert.True(t, strings.Contains(client.html, "data:image/png;base64,"))
}

func TestRenderRecord(t *testing.T) {
	client := &captureClient{}
	exporter, err := NewPDFExporter(client)
	require.NoError(t, err)

	rec := sampleRecord(t)
	pdf, err := exporter.RenderRecord(context.Background(), &rec)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	assert.True(t, strings.Contains(client.html, "Natural Care"))
	assert.True(t, strings.Contains(client.html, "Dúo Funjifin"))
}
