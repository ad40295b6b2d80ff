package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
	"deal-scanner/utils"
)

// DealSearcher runs query-driven deal searches.
type DealSearcher interface {
	SearchDeals(ctx context.Context, q models.DealQuery) (models.DealResult, error)
}

// AlertReader exposes the latest alert snapshot.
type AlertReader interface {
	Load() models.AlertSnapshot
}

// ItemTracker pins listings by id.
type ItemTracker interface {
	Track(ctx context.Context, id string) (models.TrackedItem, error)
}

// TrackedReader lists tracked items and reports store health.
type TrackedReader interface {
	ListTracked(ctx context.Context) ([]models.TrackedItem, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	deals   DealSearcher
	alerts  AlertReader
	tracker ItemTracker
	store   TrackedReader
	logger  *utils.Logger
}

func NewHandler(deals DealSearcher, alerts AlertReader, tracker ItemTracker, store TrackedReader, logger *utils.Logger) *Handler {
	return &Handler{
		deals:   deals,
		alerts:  alerts,
		tracker: tracker,
		store:   store,
		logger:  logger,
	}
}

type searchRequest struct {
	Query        string           `json:"query"`
	MaxPrice     *decimal.Decimal `json:"maxPrice"`
	MaxTimeHours *float64         `json:"maxTimeHours"`
}

type trackRequest struct {
	ItemID string `json:"itemId"`
}

// SearchDeals handles POST /api/search.
func (h *Handler) SearchDeals(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, WrapError(err, "request body must be a JSON object", http.StatusBadRequest))
		return
	}

	q := models.NewDealQuery(strings.TrimSpace(req.Query))
	if req.MaxPrice != nil {
		q.MaxPrice = *req.MaxPrice
	}
	if req.MaxTimeHours != nil {
		q.MaxTimeHours = *req.MaxTimeHours
	}

	res, err := h.deals.SearchDeals(r.Context(), q)
	if err != nil {
		h.logger.Warn("[api] Search rejected: %v", err)
		WriteError(w, err)
		return
	}

	WriteResponse(w, http.StatusOK, res)
}

// Alerts handles GET /api/alerts.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	WriteResponse(w, http.StatusOK, h.alerts.Load())
}

// Track handles POST /api/track.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, WrapError(err, "request body must be a JSON object", http.StatusBadRequest))
		return
	}

	item, err := h.tracker.Track(r.Context(), req.ItemID)
	if err != nil {
		h.logger.Warn("[api] Track %q failed: %v", req.ItemID, err)
		WriteError(w, err)
		return
	}

	WriteResponse(w, http.StatusCreated, item)
}

// Tracked handles GET /api/tracked.
func (h *Handler) Tracked(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTracked(r.Context())
	if err != nil {
		h.logger.Error("[api] List tracked: %v", err)
		WriteError(w, err)
		return
	}
	WriteResponse(w, http.StatusOK, items)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	store := "up"
	if err := h.store.Ping(r.Context()); err != nil {
		store = fmt.Sprintf("down: %v", err)
	}
	WriteResponse(w, http.StatusOK, map[string]string{"status": "ok", "store": store})
}
