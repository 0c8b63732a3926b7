package article

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/priceworks/article-service/internal/common"
)

// Handler exposes the article REST endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service   *Service
	Validator *validator.Validate
}

// NewHandler constructs a Handler. A nil validator falls back to a default
// instance.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Handler{service: cfg.Service, validate: v}
}

// Create handles POST /api/v1/articles.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := h.decodeArticle(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// List handles GET /api/v1/articles with the date/withPrices/discountOnly
// query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var date *civil.Date
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		parsed, err := civil.ParseDate(raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "date must be an ISO calendar date (YYYY-MM-DD)", nil)
			return
		}
		date = &parsed
	}

	params := FilterParams{
		Date:         date,
		WithPrices:   parseBoolParam(q.Get("withPrices")),
		DiscountOnly: parseBoolParam(q.Get("discountOnly")),
	}
	result, err := h.service.ListWithFilters(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result.Priced != nil {
		common.JSON(w, http.StatusOK, map[string]any{"data": result.Priced})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result.Articles})
}

// Get handles GET /api/v1/articles/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": a})
}

// Update handles PUT /api/v1/articles/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	patch, ok := h.decodeArticle(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Delete handles DELETE /api/v1/articles/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !deleted {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "article not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Exists handles HEAD /api/v1/articles/{id}. It answers with a bare status
// code and no body.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// decodeArticle reads and validates a request body. Transport-level checks
// only; the business invariants live in the service gate.
func (h *Handler) decodeArticle(w http.ResponseWriter, r *http.Request) (Article, bool) {
	var a Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return Article{}, false
	}
	if err := h.validate.Struct(a); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required", nil)
		return Article{}, false
	}
	for _, d := range a.Discounts {
		if d.Percentage != nil && (d.Percentage.IsNegative() || d.Percentage.GreaterThan(oneHundred)) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "discountPercentage must be between 0 and 100", nil)
			return Article{}, false
		}
	}
	return a, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "article not found", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func parseBoolParam(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
