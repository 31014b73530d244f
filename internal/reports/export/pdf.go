// Package export turns report data into the downloadable PDF documents,
// rendering embedded HTML templates through Gotenberg.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strconv"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/reports"
	"github.com/okngoo/okngoo-deliveries/web"
)

// Placeholders shown when optional fields are absent.
const (
	noDeliveryDate  = "Sin especificar"
	noPaymentMethod = "No especificado"
)

const logoAsset = "static/images/okngoo-logo.png"

// RenderClient converts HTML into PDF bytes. The Gotenberg report.Client
// satisfies it.
type RenderClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter renders the three report documents.
type PDFExporter struct {
	client    RenderClient
	templates *template.Template
	logoURI   template.URL
}

// NewPDFExporter parses the embedded templates and inlines the logo.
func NewPDFExporter(client RenderClient) (*PDFExporter, error) {
	tpl, err := template.ParseFS(web.Templates, "templates/reports/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}

	logo, err := web.Static.ReadFile(logoAsset)
	if err != nil {
		return nil, fmt.Errorf("read logo asset: %w", err)
	}

	return &PDFExporter{
		client:    client,
		templates: tpl,
		logoURI:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(logo)),
	}, nil
}

// ============================================================================
// WEEKLY CASH REPORT
// ============================================================================

// WeeklyRow is one table line of the weekly report, preformatted for display.
type WeeklyRow struct {
	Receiver      string
	Product       string
	Price         string
	Quantity      string
	Total         string
	OutOfCoverage string
	Fee           string
	NetAfterFee   string
	DeliveryDate  string
	Status        string
	PaymentMethod string
}

// WeeklyPayload feeds the weekly report template.
type WeeklyPayload struct {
	LogoURI   template.URL
	StartDate string
	EndDate   string

	Rows []WeeklyRow

	TotalSales         string
	TotalTransferSales string
	TotalCashSales     string
	TotalDeliveryCost  string
	TotalDeliveries    int
	NetTotal           string
}

// BuildWeeklyPayload formats a summary for rendering.
func (p *PDFExporter) BuildWeeklyPayload(summary *reports.WeeklySummary) WeeklyPayload {
	payload := WeeklyPayload{
		LogoURI:            p.logoURI,
		StartDate:          summary.StartDate.String(),
		EndDate:            summary.EndDate.String(),
		Rows:               make([]WeeklyRow, 0, len(summary.Records)),
		TotalSales:         summary.TotalSales.Format(),
		TotalTransferSales: summary.TotalTransferSales.Format(),
		TotalCashSales:     summary.TotalCashSales.Format(),
		TotalDeliveryCost:  summary.TotalDeliveryCost.Format(),
		TotalDeliveries:    summary.TotalDeliveries,
		NetTotal:           summary.NetTotal.Format(),
	}
	for _, rec := range summary.Records {
		payload.Rows = append(payload.Rows, WeeklyRow{
			Receiver:      rec.Receiver,
			Product:       rec.Product,
			Price:         rec.Price.Format(),
			Quantity:      strconv.Itoa(rec.Quantity),
			Total:         rec.Total.Format(),
			OutOfCoverage: coverageLabel(rec.OutOfCoverage),
			Fee:           reports.DeliveryFee(rec).Format(),
			NetAfterFee:   reports.NetAfterFee(rec).Format(),
			DeliveryDate:  dateLabel(rec.DeliveredOn),
			Status:        string(rec.Status),
			PaymentMethod: paymentLabel(rec.PaymentMethod),
		})
	}
	return payload
}

// RenderWeekly produces the weekly cash report PDF.
func (p *PDFExporter) RenderWeekly(ctx context.Context, summary *reports.WeeklySummary) ([]byte, error) {
	html, err := p.execute("weekly_report_pdf.html", p.BuildWeeklyPayload(summary))
	if err != nil {
		return nil, err
	}
	return p.client.RenderHTML(ctx, html)
}

// ============================================================================
// DAILY REPORT
// ============================================================================

// DailyRow is one table line of the daily report.
type DailyRow struct {
	Receiver      string
	Product       string
	Quantity      string
	Total         string
	PaymentMethod string
	Address       string
	OutOfCoverage string
	Status        string
	RegisteredOn  string
	DeliveredOn   string
}

// DailyPayload feeds the daily report template.
type DailyPayload struct {
	LogoURI template.URL
	Date    string
	Rows    []DailyRow
}

// BuildDailyPayload formats the day's records, ordered by registration date.
func (p *PDFExporter) BuildDailyPayload(date deliveries.Date, records []deliveries.DeliveryRecord) DailyPayload {
	payload := DailyPayload{
		LogoURI: p.logoURI,
		Date:    date.String(),
		Rows:    make([]DailyRow, 0, len(records)),
	}
	for _, rec := range reports.SortByRegistrationDate(records) {
		payload.Rows = append(payload.Rows, DailyRow{
			Receiver:      rec.Receiver,
			Product:       rec.Product,
			Quantity:      strconv.Itoa(rec.Quantity),
			Total:         rec.Total.Format(),
			PaymentMethod: paymentLabel(rec.PaymentMethod),
			Address:       rec.Address,
			OutOfCoverage: coverageLabel(rec.OutOfCoverage),
			Status:        string(rec.Status),
			RegisteredOn:  rec.RegisteredOn.String(),
			DeliveredOn:   dateLabel(rec.DeliveredOn),
		})
	}
	return payload
}

// RenderDaily produces the daily report PDF.
func (p *PDFExporter) RenderDaily(ctx context.Context, date deliveries.Date, records []deliveries.DeliveryRecord) ([]byte, error) {
	html, err := p.execute("daily_report_pdf.html", p.BuildDailyPayload(date, records))
	if err != nil {
		return nil, err
	}
	return p.client.RenderHTML(ctx, html)
}

// ============================================================================
// SINGLE RECORD REPORT
// ============================================================================

// RecordPayload feeds the single-delivery template.
type RecordPayload struct {
	LogoURI     template.URL
	Client      string
	Product     string
	Quantity    string
	Total       string
	Status      string
	DeliveredOn string
	Address     string
	Phone       string
	Receiver    string
}

// BuildRecordPayload formats one record for its standalone document.
func (p *PDFExporter) BuildRecordPayload(rec *deliveries.DeliveryRecord) RecordPayload {
	return RecordPayload{
		LogoURI:     p.logoURI,
		Client:      rec.Client,
		Product:     rec.Product,
		Quantity:    strconv.Itoa(rec.Quantity),
		Total:       rec.Total.Format(),
		Status:      string(rec.Status),
		DeliveredOn: dateLabel(rec.DeliveredOn),
		Address:     rec.Address,
		Phone:       rec.Phone,
		Receiver:    rec.Receiver,
	}
}

// RenderRecord produces a PDF for one delivery.
func (p *PDFExporter) RenderRecord(ctx context.Context, rec *deliveries.DeliveryRecord) ([]byte, error) {
	html, err := p.execute("delivery_pdf.html", p.BuildRecordPayload(rec))
	if err != nil {
		return nil, err
	}
	return p.client.RenderHTML(ctx, html)
}

// ============================================================================
// HELPERS
// ============================================================================

func (p *PDFExporter) execute(name string, data any) (string, error) {
	buf := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func coverageLabel(outOfCoverage bool) string {
	if outOfCoverage {
		return "Sí"
	}
	return "No"
}

func dateLabel(d *deliveries.Date) string {
	if d == nil {
		return noDeliveryDate
	}
	return d.String()
}

func paymentLabel(pm *deliveries.PaymentMethod) string {
	if pm == nil {
		return noPaymentMethod
	}
	return string(*pm)
}
