package readlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// graphqlRequest captures what the client put on the wire.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newMockAPI returns a server answering every GraphQL POST with the given
// body, recording the last request for assertions.
func newMockAPI(t *testing.T, responseBody string) (*httptest.Server, *graphqlRequest) {
	t.Helper()
	captured := &graphqlRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("Failed to decode GraphQL request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responseBody))
	}))

	return server, captured
}

func TestLoadArticle(t *testing.T) {
	server, captured := newMockAPI(t, `{
		"data": {
			"article": {
				"article": {
					"id": "article-1",
					"slug": "test-article",
					"savedAt": "2023-01-05T10:30:00",
					"highlights": [
						{"id": "h1", "quote": "quoted text", "annotation": "a note", "labels": [{"name": "important"}]}
					]
				}
			}
		}
	}`)
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	article, err := client.LoadArticle(context.Background(), "test-article")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if captured.Variables["username"] != "me" {
		t.Errorf("Expected username variable 'me', got '%v'", captured.Variables["username"])
	}

	if captured.Variables["slug"] != "test-article" {
		t.Errorf("Expected slug variable 'test-article', got '%v'", captured.Variables["slug"])
	}

	if article.Slug != "test-article" {
		t.Errorf("Expected slug 'test-article', got '%s'", article.Slug)
	}

	if article.SavedAt != "2023-01-05T10:30:00" {
		t.Errorf("Expected savedAt '2023-01-05T10:30:00', got '%s'", article.SavedAt)
	}

	if len(article.Highlights) != 1 {
		t.Fatalf("Expected 1 highlight, got %d", len(article.Highlights))
	}

	if article.Highlights[0].Quote != "quoted text" {
		t.Errorf("Expected quote 'quoted text', got '%s'", article.Highlights[0].Quote)
	}

	if article.Highlights[0].Labels[0].Name != "important" {
		t.Errorf("Expected label 'important', got '%s'", article.Highlights[0].Labels[0].Name)
	}
}

func TestLoadArticleUnexpectedShape(t *testing.T) {
	server, _ := newMockAPI(t, `{"data": {"article": {}}}`)
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.LoadArticle(context.Background(), "missing")
	if err == nil {
		t.Error("Expected error for response without nested article, got nil")
	}
}

func TestLoadArticleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.LoadArticle(context.Background(), "any")
	if err == nil {
		t.Error("Expected error for 502 response, got nil")
	}
}

func TestLoadArticles(t *testing.T) {
	server, captured := newMockAPI(t, `{
		"data": {
			"search": {
				"edges": [
					{"node": {"slug": "first-article", "title": "First", "pageType": "ARTICLE"}},
					{"node": {"slug": "second-article", "title": "Second", "pageType": "FILE"}}
				],
				"pageInfo": {"hasNextPage": true}
			}
		}
	}`)
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	articles, hasNextPage, err := client.LoadArticles(context.Background(), SearchOptions{
		UpdatedAt:      "2023-01-01",
		Query:          "in:archive",
		IncludeContent: true,
		Format:         "markdown",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if captured.Variables["after"] != "0" {
		t.Errorf("Expected after variable '0', got '%v'", captured.Variables["after"])
	}

	// Default page size applies when First is unset
	if captured.Variables["first"] != float64(10) {
		t.Errorf("Expected first variable 10, got '%v'", captured.Variables["first"])
	}

	if captured.Variables["query"] != "updated:2023-01-01 sort:saved-asc in:archive" {
		t.Errorf("Unexpected query variable: %v", captured.Variables["query"])
	}

	if captured.Variables["includeContent"] != true {
		t.Errorf("Expected includeContent true, got '%v'", captured.Variables["includeContent"])
	}

	if captured.Variables["format"] != "markdown" {
		t.Errorf("Expected format 'markdown', got '%v'", captured.Variables["format"])
	}

	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}

	if articles[0].Slug != "first-article" {
		t.Errorf("Expected first slug 'first-article', got '%s'", articles[0].Slug)
	}

	if articles[1].PageType != PageTypeFile {
		t.Errorf("Expected second pageType FILE, got '%s'", articles[1].PageType)
	}

	if !hasNextPage {
		t.Error("Expected hasNextPage to be true")
	}
}

func TestLoadDeletedArticleSlugs(t *testing.T) {
	server, captured := newMockAPI(t, `{
		"data": {
			"updatesSince": {
				"edges": [
					{"updateReason": "DELETED", "node": {"slug": "a"}},
					{"updateReason": "UPDATED", "node": {"slug": "b"}}
				],
				"pageInfo": {"hasNextPage": false}
			}
		}
	}`)
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	slugs, hasNextPage, err := client.LoadDeletedArticleSlugs(context.Background(), 0, 0, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Since defaults when no date is supplied
	if captured.Variables["since"] != "2021-01-01" {
		t.Errorf("Expected since variable '2021-01-01', got '%v'", captured.Variables["since"])
	}

	if len(slugs) != 1 || slugs[0] != "a" {
		t.Errorf("Expected slugs [a], got %v", slugs)
	}

	if hasNextPage {
		t.Error("Expected hasNextPage to be false")
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name      string
		updatedAt string
		query     string
		expected  string
	}{
		{
			name:     "sort only",
			expected: "sort:saved-asc",
		},
		{
			name:      "updated filter",
			updatedAt: "2023-06-01",
			expected:  "updated:2023-06-01 sort:saved-asc",
		},
		{
			name:     "free text",
			query:    "type:article golang",
			expected: "sort:saved-asc type:article golang",
		},
		{
			name:      "all parts",
			updatedAt: "2023-06-01",
			query:     "golang",
			expected:  "updated:2023-06-01 sort:saved-asc golang",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildSearchQuery(tt.updatedAt, tt.query)
			if result != tt.expected {
				t.Errorf("buildSearchQuery(%q, %q) = %q, expected %q", tt.updatedAt, tt.query, result, tt.expected)
			}
		})
	}
}
