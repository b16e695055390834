package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/offerdeck/backend/internal/domain"
	"github.com/offerdeck/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService) *Handler {
	return &Handler{search: search}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	catalogReady := h.search != nil && h.search.Ready()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "offerdeck-backend",
		"version":      "1.0.0",
		"catalogReady": catalogReady,
	})
}

// SuggestInstruments returns ranked, type-grouped catalog suggestions for
// the q query parameter
func (h *Handler) SuggestInstruments(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	query := c.Query("q")
	groups, err := h.search.Suggest(c.Request.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		case errors.Is(err, domain.ErrCatalogUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "instrument catalog unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "suggestion lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":  query,
		"groups": groups,
	})
}

// offerSearchRequest is the body for the offers endpoint: either raw
// query text, or a committed selection by baseNorm + type
type offerSearchRequest struct {
	Query    string `json:"query"`
	BaseNorm string `json:"baseNorm"`
	Type     string `json:"type"`
}

// SearchOffers resolves an instrument and returns its deduplicated,
// provider-grouped offers with the tri-state result indicator
func (h *Handler) SearchOffers(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	var req offerSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Query == "" && req.BaseNorm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either query or baseNorm is required"})
		return
	}

	state, selected, groups, err := h.search.Offers(c.Request.Context(), usecase.OfferQuery{
		Query:    req.Query,
		BaseNorm: req.BaseNorm,
		Type:     domain.InstrumentType(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoCatalogMatch):
			// A normal outcome, not an error: the user typed something we
			// don't know
			c.JSON(http.StatusOK, gin.H{"result": domain.ResultNoInstrument})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument type"})
		case errors.Is(err, domain.ErrCatalogUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "instrument catalog unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "offer lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     state,
		"instrument": selected,
		"providers":  groups,
	})
}

// ReloadSources re-fetches every tabular source in the background
func (h *Handler) ReloadSources(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	go func() {
		// Detached from the request context: the reload should finish
		// even if the caller disconnects
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_ = h.search.LoadSources(ctx)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "reload started"})
}
