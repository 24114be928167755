package note

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marginote/readsync/internal/highlight"
	"github.com/marginote/readsync/internal/readlist"
)

// Render builds the markdown note body for an article. dateFormat uses
// moment-style tokens for the wiki-linked saved date.
func Render(article *readlist.Article, dateFormat string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Escape(article.Title))

	if article.URL != "" {
		fmt.Fprintf(&b, "[Read on %s](%s)\n\n", siteName(article), article.URL)
	}

	if article.Author != "" {
		fmt.Fprintf(&b, "by %s\n\n", Escape(article.Author))
	}

	if article.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", Escape(article.Description))
	}

	if len(article.Labels) > 0 {
		tags := make([]string, 0, len(article.Labels))
		for _, label := range article.Labels {
			tags = append(tags, "#"+strings.ReplaceAll(label.Name, " ", "-"))
		}
		fmt.Fprintf(&b, "%s\n\n", strings.Join(tags, " "))
	}

	if saved, err := parseTimestamp(article.SavedAt); err == nil {
		fmt.Fprintf(&b, "Saved: %s\n\n", FormatDate(saved, dateFormat))
	}

	if article.Content != "" {
		fmt.Fprintf(&b, "%s\n\n", article.Content)
	}

	highlights := OrderHighlights(article)
	if len(highlights) > 0 {
		b.WriteString("## Highlights\n\n")
		for _, h := range highlights {
			writeHighlight(&b, h)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// OrderHighlights returns the article's highlights in reading order.
// Spatially anchored documents sort by bounding-box position; everything
// else sorts by text offset. Which decoder applies is decided here, not in
// the highlight package.
func OrderHighlights(article *readlist.Article) []readlist.Highlight {
	ordered := make([]readlist.Highlight, len(article.Highlights))
	copy(ordered, article.Highlights)

	if article.PageType == readlist.PageTypeFile {
		sort.SliceStable(ordered, func(i, j int) bool {
			return highlight.Compare(ordered[i], ordered[j]) < 0
		})
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return highlight.Location(ordered[i].Patch) < highlight.Location(ordered[j].Patch)
	})
	return ordered
}

// writeHighlight renders one highlight as a blockquote with its
// annotation underneath.
func writeHighlight(b *strings.Builder, h readlist.Highlight) {
	for _, line := range strings.Split(h.Quote, "\n") {
		fmt.Fprintf(b, "> %s\n", line)
	}
	b.WriteString("\n")

	if h.Annotation != "" {
		fmt.Fprintf(b, "%s\n\n", Escape(h.Annotation))
	}
}

// siteName prefers the article's site name, falling back to a generic
// label so the link still reads naturally.
func siteName(article *readlist.Article) string {
	if article.SiteName != "" {
		return Escape(article.SiteName)
	}
	return "the web"
}
