package deliveries

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okngoo/okngoo-deliveries/internal/platform/httpx"
)

// Handler manages delivery endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers delivery routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.register)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/deliver", h.markDelivered)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/reopen", h.reopen)
	r.Put("/{id}/payment-method", h.setPaymentMethod)
	r.Delete("/{id}", h.remove)
}

// RecordResponse is the wire shape of a delivery record. Monetary fields are
// duplicated as display strings so clients never format currency themselves.
type RecordResponse struct {
	DeliveryRecord
	PriceDisplay string `json:"price"`
	TotalDisplay string `json:"total"`
}

func toResponse(rec *DeliveryRecord) RecordResponse {
	return RecordResponse{
		DeliveryRecord: *rec,
		PriceDisplay:   rec.Price.Format(),
		TotalDisplay:   rec.Total.Format(),
	}
}

func toResponseList(records []DeliveryRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toResponse(&records[i]))
	}
	return out
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrNotFound, err))
	case errors.Is(err, ErrInvalidTransition):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrConflict, err))
	case errors.Is(err, ErrUnknownClient),
		errors.Is(err, ErrProductNotInCatalog),
		errors.Is(err, ErrInvalidPaymentMethod):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
			return
		}
		h.logger.Error("delivery operation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func recordID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// register handles the entry form submission.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body is not valid JSON")
		return
	}

	rec, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(rec))
}

// list serves the tracking view, with an optional registration date range.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter

	if start := r.URL.Query().Get("start"); start != "" {
		d, err := ParseDate(start)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "start must be YYYY-MM-DD")
			return
		}
		filter.DateFrom = &d
	}
	if end := r.URL.Query().Get("end"); end != "" {
		d, err := ParseDate(end)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "end must be YYYY-MM-DD")
			return
		}
		filter.DateTo = &d
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := Status(status)
		if !st.IsValid() {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Status", "unknown status "+status)
			return
		}
		filter.Status = &st
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list deliveries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"deliveries": toResponseList(records),
		"total":      len(records),
	})
}

// get serves the record detail dialog.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a UUID")
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(uuid.UUID) (*DeliveryRecord, error)) {
	id, err := recordID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a UUID")
		return
	}

	rec, err := apply(id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) markDelivered(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id uuid.UUID) (*DeliveryRecord, error) {
		return h.service.MarkDelivered(r.Context(), id)
	})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id uuid.UUID) (*DeliveryRecord, error) {
		return h.service.Cancel(r.Context(), id)
	})
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id uuid.UUID) (*DeliveryRecord, error) {
		return h.service.Reopen(r.Context(), id)
	})
}

func (h *Handler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a UUID")
		return
	}

	var req SetPaymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body is not valid JSON")
		return
	}

	rec, err := h.service.SetPaymentMethod(r.Context(), id, req.PaymentMethod)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CatalogHandler serves the client and product lists that feed the entry
// form's dependent dropdowns.
type CatalogHandler struct {
	catalog *Catalog
}

// NewCatalogHandler builds CatalogHandler instance.
func NewCatalogHandler(catalog *Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// MountRoutes registers catalog routes.
func (h *CatalogHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
}

func (h *CatalogHandler) show(w http.ResponseWriter, r *http.Request) {
	clients := h.catalog.Clients()
	products := make(map[string][]string, len(clients))
	for _, c := range clients {
		products[c] = h.catalog.Products(c)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"clients":  clients,
		"products": products,
	})
}
