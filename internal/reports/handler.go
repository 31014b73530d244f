package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/money"
	"github.com/okngoo/okngoo-deliveries/internal/platform/httpx"
)

// RecordGetter fetches one delivery for the single-record document. The
// deliveries service implements it.
type RecordGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*deliveries.DeliveryRecord, error)
}

// Handler serves the report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	records RecordGetter
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, records RecordGetter) *Handler {
	return &Handler{logger: logger, service: service, records: records}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/weekly", h.weekly)
	r.Get("/weekly/pdf", h.weeklyPDF)
	r.Get("/daily", h.daily)
	r.Get("/daily/pdf", h.dailyPDF)
	r.Get("/specific", h.specific)
	r.Get("/specific/{id}/pdf", h.recordPDF)
}

// amountPair reports a figure both as raw centavos and as display text.
type amountPair struct {
	Cents   money.Cents `json:"cents"`
	Display string      `json:"display"`
}

func pair(c money.Cents) amountPair {
	return amountPair{Cents: c, Display: c.Format()}
}

// WeeklySummaryResponse is the wire shape of the weekly cash summary.
type WeeklySummaryResponse struct {
	StartDate          deliveries.Date             `json:"start_date"`
	EndDate            deliveries.Date             `json:"end_date"`
	TotalSales         amountPair                  `json:"total_sales"`
	TotalTransferSales amountPair                  `json:"total_transfer_sales"`
	TotalCashSales     amountPair                  `json:"total_cash_sales"`
	TotalDeliveryCost  amountPair                  `json:"total_delivery_cost"`
	TotalDeliveries    int                         `json:"total_deliveries"`
	NetTotal           amountPair                  `json:"net_total"`
	Deliveries         []deliveries.DeliveryRecord `json:"deliveries"`
}

func toSummaryResponse(s *WeeklySummary) WeeklySummaryResponse {
	return WeeklySummaryResponse{
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		TotalSales:         pair(s.TotalSales),
		TotalTransferSales: pair(s.TotalTransferSales),
		TotalCashSales:     pair(s.TotalCashSales),
		TotalDeliveryCost:  pair(s.TotalDeliveryCost),
		TotalDeliveries:    s.TotalDeliveries,
		NetTotal:           pair(s.NetTotal),
		Deliveries:         s.Records,
	}
}

// weekRange parses start/end query params, defaulting to the last seven days
// when both are absent.
func weekRange(r *http.Request) (deliveries.Date, deliveries.Date, error) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	if startParam == "" && endParam == "" {
		today := deliveries.Today()
		weekAgo := deliveries.DateOf(today.AddDate(0, 0, -7))
		return weekAgo, today, nil
	}

	start, err := deliveries.ParseDate(startParam)
	if err != nil {
		return deliveries.Date{}, deliveries.Date{}, fmt.Errorf("start must be YYYY-MM-DD")
	}
	end, err := deliveries.ParseDate(endParam)
	if err != nil {
		return deliveries.Date{}, deliveries.Date{}, fmt.Errorf("end must be YYYY-MM-DD")
	}
	return start, end, nil
}

func (h *Handler) respondReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDateRange):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	case errors.Is(err, deliveries.ErrNotFound):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrNotFound, err))
	default:
		h.logger.Error("report generation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) weekly(w http.ResponseWriter, r *http.Request) {
	start, end, err := weekRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	summary, err := h.service.WeeklySummary(r.Context(), start, end)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) weeklyPDF(w http.ResponseWriter, r *http.Request) {
	start, end, err := weekRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}

	pdf, err := h.service.WeeklyPDF(r.Context(), start, end)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	filename := fmt.Sprintf("Reporte_Entregas_Semana_%s_a_%s.pdf", start, end)
	httpx.PDF(w, filename, pdf)
}

func reportDate(r *http.Request) (deliveries.Date, error) {
	return deliveries.ParseDate(r.URL.Query().Get("date"))
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	date, err := reportDate(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be YYYY-MM-DD")
		return
	}

	records, err := h.service.Daily(r.Context(), date)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"date":       date,
		"deliveries": records,
		"total":      len(records),
	})
}

func (h *Handler) dailyPDF(w http.ResponseWriter, r *http.Request) {
	date, err := reportDate(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be YYYY-MM-DD")
		return
	}

	pdf, err := h.service.DailyPDF(r.Context(), date)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	httpx.PDF(w, fmt.Sprintf("Reporte_Entregas_%s.pdf", date), pdf)
}

func (h *Handler) specific(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	if client == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Client", "client query parameter is required")
		return
	}
	date, err := reportDate(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be YYYY-MM-DD")
		return
	}

	records, err := h.service.Specific(r.Context(), client, date)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"client":     client,
		"date":       date,
		"deliveries": records,
		"total":      len(records),
	})
}

func (h *Handler) recordPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a UUID")
		return
	}

	rec, err := h.records.Get(r.Context(), id)
	if err != nil {
		h.respondReportError(w, err)
		return
	}

	pdf, err := h.service.RecordPDF(r.Context(), rec)
	if err != nil {
		h.respondReportError(w, err)
		return
	}
	httpx.PDF(w, fmt.Sprintf("Entrega_%s.pdf", rec.ID), pdf)
}
