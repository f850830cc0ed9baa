package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxPageBytes    = 512 * 1024
	maxPageText     = 60000
	maxHeadings     = 8
	maxJSONLDBlocks = 3
)

// PageSignals is the distilled content of one fetched page: the parts that
// tend to carry company and founder facts, with markup and chrome stripped
type PageSignals struct {
	URL         string
	Title       string
	Description string
	Headings    []string
	JSONLD      []string
	Text        string
}

// fetchPages downloads the shortlisted pages with bounded concurrency,
// preserving shortlist order. Dead pages are logged and skipped; they never
// fail the run.
func (r *Researcher) fetchPages(ctx context.Context, urls []string) []PageSignals {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	results := make([]*PageSignals, len(urls))
	for i, pageURL := range urls {
		idx, target := i, pageURL
		g.Go(func() error {
			signals, err := fetchPage(gctx, r.client, target)
			if err != nil {
				r.logger.Warn("Page fetch failed", zap.String("url", target), zap.Error(err))
				return nil
			}
			results[idx] = signals
			return nil
		})
	}
	_ = g.Wait()

	pages := []PageSignals{}
	for _, signals := range results {
		if signals != nil {
			pages = append(pages, *signals)
		}
	}
	return pages
}

// fetchPage downloads one page and extracts its signals
func fetchPage(ctx context.Context, client *http.Client, pageURL string) (*PageSignals, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		pageURL = "https://" + pageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", researchUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", pageURL, resp.StatusCode)
	}

	return extractPageSignals(io.LimitReader(resp.Body, maxPageBytes), pageURL)
}

// extractPageSignals pulls the title, meta description, headings, JSON-LD
// blocks and visible text out of the markup. JSON-LD is read before scripts
// are stripped for the text pass.
func extractPageSignals(body io.Reader, pageURL string) (*PageSignals, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	signals := &PageSignals{URL: pageURL}
	signals.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if description, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		signals.Description = strings.TrimSpace(description)
	}

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(signals.Headings) >= maxHeadings {
			return false
		}
		if heading := strings.Join(strings.Fields(sel.Text()), " "); heading != "" {
			signals.Headings = append(signals.Headings, heading)
		}
		return true
	})

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(signals.JSONLD) >= maxJSONLDBlocks {
			return false
		}
		if block := strings.TrimSpace(sel.Text()); block != "" {
			signals.JSONLD = append(signals.JSONLD, block)
		}
		return true
	})

	doc.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}
	signals.Text = text

	return signals, nil
}
