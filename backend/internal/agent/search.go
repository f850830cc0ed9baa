package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// researchUserAgent mimics a browser; the HTML search endpoint rejects the
// default Go client string.
const researchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SearchHit is one web search result
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// searchWeb queries the DuckDuckGo HTML endpoint, which needs no API key,
// and parses the result list
func searchWeb(ctx context.Context, client *http.Client, query string) ([]SearchHit, error) {
	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", researchUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}
	return parseSearchResults(resp.Body)
}

// parseSearchResults extracts hits from the DuckDuckGo result markup.
// Result anchors point at a redirect wrapper that carries the target URL in
// its uddg query parameter.
func parseSearchResults(body io.Reader) ([]SearchHit, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	hits := []SearchHit{}
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		hit := SearchHit{
			Title:   strings.TrimSpace(link.Text()),
			URL:     unwrapResultURL(href),
			Snippet: strings.Join(strings.Fields(sel.Find(".result__snippet").Text()), " "),
		}
		if hit.Title != "" && hit.URL != "" {
			hits = append(hits, hit)
		}
	})
	return hits, nil
}

// unwrapResultURL resolves the redirect wrapper to the target URL. Direct
// absolute links pass through; anything unparseable is dropped.
func unwrapResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.IsAbs() {
		return href
	}
	return ""
}
