// Path: internal/delivery/rest/server.go
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"price-hunter/internal/events"
)

// Server is the HTTP server for the search API.
type Server struct {
	httpServer *http.Server
}

// NewServer creates and configures a new API server.
func NewServer(port string, allowedOrigins []string, service searchService, broker *events.Broker) *Server {
	gin.SetMode(gin.ReleaseMode)

	handlers := NewHandlers(service, broker)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(allowedOrigins))

	router.GET("/", handlers.Root)
	router.GET("/products", handlers.GetProducts)
	router.GET("/scrape-stream", handlers.ScrapeStream)
	router.GET("/store-options", handlers.StoreOptions)
	router.GET("/tracked", handlers.GetTracked)
	router.GET("/tracked/events", handlers.TrackedEvents)
	router.POST("/track", handlers.TrackQuery)
	router.DELETE("/track", handlers.UntrackQuery)

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: router,
			// No WriteTimeout: the scrape stream stays open for the whole
			// search.
			ReadTimeout: 5 * time.Second,
			IdleTimeout: 120 * time.Second,
		},
	}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
