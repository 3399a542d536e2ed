// Path: internal/delivery/rest/handlers.go
package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"price-hunter/internal/domain"
	"price-hunter/internal/events"
)

// searchService defines the interface required by the handlers from the core
// service. This keeps the delivery layer decoupled from the full service
// implementation.
type searchService interface {
	SearchStream(ctx context.Context, query string, forceRefresh bool) <-chan domain.StreamEvent
	StoreOptions(ctx context.Context, query, storeName string, limit int) ([]domain.StoreOption, error)
	Track(ctx context.Context, query string) error
	Untrack(ctx context.Context, query string) error
	TrackedQueries(ctx context.Context) []domain.TrackedQuery
	AllCachedProducts(ctx context.Context) []domain.CachedProduct
}

// Handlers holds dependencies for the API handlers.
type Handlers struct {
	service searchService
	broker  *events.Broker
}

// NewHandlers creates a new handler struct.
func NewHandlers(service searchService, broker *events.Broker) *Handlers {
	return &Handlers{service: service, broker: broker}
}

// Root reports service health/meta.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "price-hunter-backend",
	})
}

// GetProducts returns every cached result across all queries, flattened.
// Useful for restoring frontend state on reload.
func (h *Handlers) GetProducts(c *gin.Context) {
	rows := h.service.AllCachedProducts(c.Request.Context())
	if rows == nil {
		rows = []domain.CachedProduct{}
	}
	c.JSON(http.StatusOK, rows)
}

// ScrapeStream serves a live search as a server-sent event stream of
// log/result events terminated by a done event. A fresh cache entry is
// replayed instead of opening browser sessions unless refresh is forced.
func (h *Handlers) ScrapeStream(c *gin.Context) {
	product := strings.TrimSpace(c.Query("product_name"))
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_name is required"})
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force_refresh", "false"))

	setStreamHeaders(c)
	stream := h.service.SearchStream(c.Request.Context(), product, force)
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-stream
		if !ok {
			return false
		}
		_ = sse.Encode(w, sse.Event{Data: ev})
		return true
	})
}

// StoreOptions returns the comparison listing for one store: accepted
// candidates sorted by price then score, capped at limit.
func (h *Handlers) StoreOptions(c *gin.Context) {
	product := strings.TrimSpace(c.Query("product_name"))
	storeName := strings.TrimSpace(c.Query("store_name"))
	if product == "" || storeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_name and store_name are required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	options, err := h.service.StoreOptions(c.Request.Context(), product, storeName, limit)
	switch {
	case errors.Is(err, domain.ErrUnknownStore):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown store: " + storeName})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		if options == nil {
			options = []domain.StoreOption{}
		}
		c.JSON(http.StatusOK, options)
	}
}

// GetTracked lists tracked queries with their last-refresh timestamps.
func (h *Handlers) GetTracked(c *gin.Context) {
	tracked := h.service.TrackedQueries(c.Request.Context())
	if tracked == nil {
		tracked = []domain.TrackedQuery{}
	}
	c.JSON(http.StatusOK, tracked)
}

// TrackQuery registers a query for background refresh.
func (h *Handlers) TrackQuery(c *gin.Context) {
	query := c.Query("query")
	if err := h.service.Track(c.Request.Context(), query); err != nil {
		c.JSON(trackStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "tracking: " + query})
}

// UntrackQuery removes a query from the registry; the cached results age out
// on their own.
func (h *Handlers) UntrackQuery(c *gin.Context) {
	query := c.Query("query")
	if err := h.service.Untrack(c.Request.Context(), query); err != nil {
		c.JSON(trackStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "untracked: " + query})
}

func trackStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// TrackedEvents streams background-refresh notifications so clients can pick
// up new prices without polling.
func (h *Handlers) TrackedEvents(c *gin.Context) {
	sub := h.broker.Subscribe(events.TopicTrackedRefresh)
	defer h.broker.Unsubscribe(events.TopicTrackedRefresh, sub)

	setStreamHeaders(c)
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub:
			if !ok {
				return false
			}
			_ = sse.Encode(w, sse.Event{Event: "refresh", Data: ev.Data})
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func setStreamHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
}
