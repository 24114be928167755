package readlist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/marginote/readsync/internal/graphql"
)

const (
	// defaultPageSize is used when the caller does not ask for a page size.
	defaultPageSize = 10

	// defaultSince bounds the updates-since feed when no date is given.
	defaultSince = "2021-01-01"

	// username is the account designator the API expects for the key owner.
	username = "me"
)

// PageType classifies the source document of an article.
type PageType string

const (
	PageTypeArticle    PageType = "ARTICLE"
	PageTypeBook       PageType = "BOOK"
	PageTypeFile       PageType = "FILE"
	PageTypeProfile    PageType = "PROFILE"
	PageTypeUnknown    PageType = "UNKNOWN"
	PageTypeWebsite    PageType = "WEBSITE"
	PageTypeHighlights PageType = "HIGHLIGHTS"
)

// HighlightType classifies a highlight.
type HighlightType string

const (
	HighlightTypeHighlight HighlightType = "HIGHLIGHT"
	HighlightTypeNote      HighlightType = "NOTE"
	HighlightTypeRedaction HighlightType = "REDACTION"
)

// UpdateReason tags an entry in the updates-since feed.
type UpdateReason string

const (
	UpdateReasonCreated UpdateReason = "CREATED"
	UpdateReasonUpdated UpdateReason = "UPDATED"
	UpdateReasonDeleted UpdateReason = "DELETED"
)

// Label is a name tag attached to articles and highlights.
type Label struct {
	Name string `json:"name"`
}

// Highlight is a saved excerpt within an article. Patch is an opaque
// positional encoding whose interpretation depends on the source document
// type; see the highlight package.
type Highlight struct {
	ID         string        `json:"id"`
	Quote      string        `json:"quote"`
	Annotation string        `json:"annotation"`
	Patch      string        `json:"patch"`
	UpdatedAt  string        `json:"updatedAt"`
	Labels     []Label       `json:"labels"`
	Type       HighlightType `json:"type"`
}

// Article is a saved item in the reading list. Timestamps are kept
// string-encoded exactly as served.
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	SiteName    string      `json:"siteName"`
	URL         string      `json:"originalArticleUrl"`
	Author      string      `json:"author"`
	Description string      `json:"description"`
	Slug        string      `json:"slug"`
	Labels      []Label     `json:"labels"`
	Highlights  []Highlight `json:"highlights"`
	UpdatedAt   string      `json:"updatedAt"`
	SavedAt     string      `json:"savedAt"`
	PageType    PageType    `json:"pageType"`
	Content     string      `json:"content"`
	PublishedAt string      `json:"publishedAt"`
}

// Client fetches articles and highlights from the reading-list service
type Client struct {
	gql *graphql.Client
}

// NewClient creates a new reading-list client
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		gql: graphql.NewClient(endpoint, apiKey),
	}
}

// SearchOptions control a single search page. After is a numeric offset;
// iteration across pages is left to the caller.
type SearchOptions struct {
	After          int
	First          int
	UpdatedAt      string
	Query          string
	IncludeContent bool
	Format         string
}

// articleResponse mirrors the data.article.article envelope.
type articleResponse struct {
	Data struct {
		Article struct {
			Article *Article `json:"article"`
		} `json:"article"`
	} `json:"data"`
}

// searchResponse mirrors the data.search envelope.
type searchResponse struct {
	Data struct {
		Search struct {
			Edges []struct {
				Node Article `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"search"`
	} `json:"data"`
}

// updatesSinceResponse mirrors the data.updatesSince envelope.
type updatesSinceResponse struct {
	Data struct {
		UpdatesSince struct {
			Edges []struct {
				UpdateReason UpdateReason `json:"updateReason"`
				Node         struct {
					Slug string `json:"slug"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"updatesSince"`
	} `json:"data"`
}

// LoadArticle fetches a single article by slug with a reduced field set.
func (c *Client) LoadArticle(ctx context.Context, slug string) (*Article, error) {
	variables := map[string]interface{}{
		"username": username,
		"slug":     slug,
	}

	var resp articleResponse
	if err := c.gql.Do(ctx, articleQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("loading article %s: %w", slug, err)
	}

	if resp.Data.Article.Article == nil {
		return nil, fmt.Errorf("unexpected article response shape for %s", slug)
	}

	return resp.Data.Article.Article, nil
}

// LoadArticles fetches one page of search results sorted by save time and
// reports whether more pages exist.
func (c *Client) LoadArticles(ctx context.Context, opts SearchOptions) ([]Article, bool, error) {
	first := opts.First
	if first <= 0 {
		first = defaultPageSize
	}

	variables := map[string]interface{}{
		"after":          strconv.Itoa(opts.After),
		"first":          first,
		"query":          buildSearchQuery(opts.UpdatedAt, opts.Query),
		"includeContent": opts.IncludeContent,
		"format":         opts.Format,
	}

	var resp searchResponse
	if err := c.gql.Do(ctx, searchQuery, variables, &resp); err != nil {
		return nil, false, fmt.Errorf("searching articles: %w", err)
	}

	articles := make([]Article, 0, len(resp.Data.Search.Edges))
	for _, edge := range resp.Data.Search.Edges {
		articles = append(articles, edge.Node)
	}

	return articles, resp.Data.Search.PageInfo.HasNextPage, nil
}

// LoadDeletedArticleSlugs fetches one page of the updates-since feed and
// keeps only the slugs of deleted articles.
func (c *Client) LoadDeletedArticleSlugs(ctx context.Context, after, first int, updatedAt string) ([]string, bool, error) {
	if first <= 0 {
		first = defaultPageSize
	}

	since := updatedAt
	if since == "" {
		since = defaultSince
	}

	variables := map[string]interface{}{
		"after": strconv.Itoa(after),
		"first": first,
		"since": since,
	}

	var resp updatesSinceResponse
	if err := c.gql.Do(ctx, updatesSinceQuery, variables, &resp); err != nil {
		return nil, false, fmt.Errorf("loading deleted slugs: %w", err)
	}

	var slugs []string
	for _, edge := range resp.Data.UpdatesSince.Edges {
		if edge.UpdateReason == UpdateReasonDeleted {
			slugs = append(slugs, edge.Node.Slug)
		}
	}

	return slugs, resp.Data.UpdatesSince.PageInfo.HasNextPage, nil
}

// buildSearchQuery assembles the search query string: an optional updated
// filter, the fixed save-order sort, and the caller's free-text query.
func buildSearchQuery(updatedAt, query string) string {
	parts := make([]string, 0, 3)
	if updatedAt != "" {
		parts = append(parts, "updated:"+updatedAt)
	}
	parts = append(parts, "sort:saved-asc")
	if query != "" {
		parts = append(parts, query)
	}
	return strings.Join(parts, " ")
}
