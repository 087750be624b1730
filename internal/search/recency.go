package search

import (
	"fmt"
	"strings"
	"time"
)

var timeKeywords = []string{
	"today", "now", "latest", "recent", "current", "news", "update",
	"happened", "happening", "score", "price", "weather", "stock",
}

// EnhanceRecency appends a date filter for time-sensitive queries so
// results favor the last week.
func EnhanceRecency(query string, now time.Time) string {
	lower := strings.ToLower(query)
	for _, k := range timeKeywords {
		if strings.Contains(lower, k) {
			return fmt.Sprintf("%s after:%s", query, now.AddDate(0, 0, -7).Format("2006-01-02"))
		}
	}
	return query
}

// FormatResults renders results as a numbered title/link/snippet block
// suitable for feeding back to the model.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var b strings.Builder
	b.WriteString("Latest web results:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   Link: %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return b.String()
}
