package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marginote/readsync/internal/cache"
	"github.com/marginote/readsync/internal/note"
	"github.com/marginote/readsync/internal/readlist"
)

// searchArticlesHandler serves one page of search results
func (s *Server) searchArticlesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	opts := readlist.SearchOptions{
		After:          intParam(params.Get("after"), 0),
		First:          intParam(params.Get("first"), s.config.PageSize),
		UpdatedAt:      params.Get("updated"),
		Query:          params.Get("query"),
		IncludeContent: params.Get("content") == "true",
		Format:         params.Get("format"),
	}

	articles, hasNextPage, err := s.client.LoadArticles(ctx, opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error searching articles: %v", err), http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"articles":      articles,
		"count":         len(articles),
		"has_next_page": hasNextPage,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getArticleHandler serves a single article, from cache when possible
func (s *Server) getArticleHandler(w http.ResponseWriter, r *http.Request) {
	article, err := s.loadArticleCached(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading article: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(article)
}

// getNoteHandler serves the rendered markdown note for an article
func (s *Server) getNoteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]

	article, err := s.loadArticleCached(ctx, slug)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading article: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, note.Render(article, s.config.DateFormat))
}

// deletedSlugsHandler serves one page of the deleted-slug feed
func (s *Server) deletedSlugsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	after := intParam(params.Get("after"), 0)
	first := intParam(params.Get("first"), s.config.PageSize)

	slugs, hasNextPage, err := s.client.LoadDeletedArticleSlugs(ctx, after, first, params.Get("updated"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading deleted slugs: %v", err), http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"slugs":         slugs,
		"count":         len(slugs),
		"has_next_page": hasNextPage,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// cacheStatsHandler returns cache statistics
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.articleCache.GetStats(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Error getting cache stats: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// cacheClearHandler clears the cache
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.articleCache.Clear(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Error clearing cache: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]string{
		"status":  "success",
		"message": "Cache cleared",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// loadArticleCached fetches an article through the cache.
func (s *Server) loadArticleCached(ctx context.Context, slug string) (*readlist.Article, error) {
	entry, err := s.articleCache.Get(ctx, slug)
	if err == nil {
		return &entry.Article, nil
	}
	if err != cache.ErrCacheMiss {
		return nil, err
	}

	article, err := s.client.LoadArticle(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.articleCache.Set(ctx, slug, *article); err != nil {
		log.Printf("Error caching article %s: %v", slug, err)
	}
	return article, nil
}

// intParam parses a numeric query parameter with a fallback
func intParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return defaultValue
}
