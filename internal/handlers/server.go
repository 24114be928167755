package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marginote/readsync/internal/cache"
	"github.com/marginote/readsync/internal/config"
	"github.com/marginote/readsync/internal/readlist"
)

// Server holds the HTTP facade and its dependencies
type Server struct {
	config       *config.Config
	client       *readlist.Client
	articleCache *cache.MemoryCache
}

// NewServer creates a new HTTP facade over the reading-list client
func NewServer(cfg *config.Config) (*Server, error) {
	return &Server{
		config:       cfg,
		client:       readlist.NewClient(cfg.APIEndpoint, cfg.APIKey),
		articleCache: cache.NewMemoryCache(time.Duration(cfg.CacheDuration) * time.Hour),
	}, nil
}

// Close releases the server's background resources
func (s *Server) Close() {
	s.articleCache.Close()
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	// Health check
	api.HandleFunc("/health", s.healthHandler).Methods("GET")

	// Article operations
	api.HandleFunc("/articles", s.searchArticlesHandler).Methods("GET")
	api.HandleFunc("/articles/{slug}", s.getArticleHandler).Methods("GET")
	api.HandleFunc("/articles/{slug}/note", s.getNoteHandler).Methods("GET")

	// Deleted-slug feed
	api.HandleFunc("/deleted", s.deletedSlugsHandler).Methods("GET")

	// Cache operations
	api.HandleFunc("/cache/stats", s.cacheStatsHandler).Methods("GET")
	api.HandleFunc("/cache", s.cacheClearHandler).Methods("DELETE")

	return r
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// EvictDeleted walks the deleted-slug feed since the given date and drops
// those slugs from the article cache. Returns how many slugs were evicted.
func (s *Server) EvictDeleted(ctx context.Context, since string) (int, error) {
	evicted := 0
	after := 0

	for {
		slugs, hasNextPage, err := s.client.LoadDeletedArticleSlugs(ctx, after, s.config.PageSize, since)
		if err != nil {
			return evicted, err
		}

		for _, slug := range slugs {
			if err := s.articleCache.Delete(ctx, slug); err != nil {
				log.Printf("Error evicting %s from cache: %v", slug, err)
				continue
			}
			evicted++
		}

		if !hasNextPage {
			return evicted, nil
		}
		after += s.config.PageSize
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
