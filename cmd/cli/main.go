package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/marginote/readsync/internal/config"
	"github.com/marginote/readsync/internal/note"
	"github.com/marginote/readsync/internal/readlist"
)

func main() {
	var (
		slug     = flag.String("slug", "", "fetch a single article by slug")
		query    = flag.String("query", "", "free-text search query")
		after    = flag.Int("after", 0, "page offset for search and deleted feeds")
		first    = flag.Int("first", 0, "page size (defaults to the configured size)")
		updated  = flag.String("updated", "", "only items updated since this date (YYYY-MM-DD)")
		deleted  = flag.Bool("deleted", false, "list deleted article slugs instead of searching")
		asNote   = flag.Bool("note", false, "render the result as a markdown note")
		content  = flag.Bool("content", false, "include article content in search results")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := readlist.NewClient(cfg.APIEndpoint, cfg.APIKey)
	ctx := context.Background()

	switch {
	case *slug != "":
		article, err := client.LoadArticle(ctx, *slug)
		if err != nil {
			log.Fatalf("Fetching article failed: %v", err)
		}
		if *asNote {
			fmt.Print(note.Render(article, cfg.DateFormat))
			return
		}
		printJSON(article)

	case *deleted:
		slugs, hasNextPage, err := client.LoadDeletedArticleSlugs(ctx, *after, *first, *updated)
		if err != nil {
			log.Fatalf("Fetching deleted slugs failed: %v", err)
		}
		for _, s := range slugs {
			fmt.Println(s)
		}
		if hasNextPage {
			fmt.Fprintf(os.Stderr, "more pages available; rerun with -after %d\n", *after+pageSize(cfg, *first))
		}

	default:
		articles, hasNextPage, err := client.LoadArticles(ctx, readlist.SearchOptions{
			After:          *after,
			First:          *first,
			UpdatedAt:      *updated,
			Query:          *query,
			IncludeContent: *content,
			Format:         "markdown",
		})
		if err != nil {
			log.Fatalf("Searching articles failed: %v", err)
		}
		if *asNote {
			for i := range articles {
				fmt.Print(note.Render(&articles[i], cfg.DateFormat))
				fmt.Println()
			}
		} else {
			printJSON(articles)
		}
		if hasNextPage {
			fmt.Fprintf(os.Stderr, "more pages available; rerun with -after %d\n", *after+pageSize(cfg, *first))
		}
	}
}

// pageSize resolves the effective page size for the next-offset hint.
func pageSize(cfg *config.Config, first int) int {
	if first > 0 {
		return first
	}
	return cfg.PageSize
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Encoding output failed: %v", err)
	}
}
