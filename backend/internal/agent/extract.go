package agent

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	maxCorpusBytes     = 12000
	maxSnippetsPerPage = 5
)

// corpusKeywords flag the passages worth keeping when a page is too long to
// send whole: founder mentions, leadership sections, founding dates, headcount
var corpusKeywords = []string{
	"founder", "co-founder", "cofounder",
	"ceo", "cto", "cfo",
	"leadership", "team", "about", "mission",
	"founded", "established", "since", "year",
	"employees", "company size",
}

// scoreURL ranks a search hit by how likely it is to describe the company:
// its own site first, then about/team pages, then the usual reference sites
func scoreURL(rawURL, title, company string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}

	score := 0
	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)
	companyLower := strings.ToLower(strings.TrimSpace(company))

	if fields := strings.Fields(companyLower); len(fields) > 0 {
		if strings.Contains(host, fields[0]) {
			score += 5
		}
	}

	for _, section := range []string{"/about", "/team", "/leadership", "/company"} {
		if strings.Contains(path, section) {
			score += 4
			break
		}
	}

	for _, reference := range []string{"wikipedia.org", "crunchbase.com", "linkedin.com"} {
		if strings.Contains(host, reference) {
			score += 3
			break
		}
	}

	for _, suffix := range []string{".pdf", ".zip", ".png", ".jpg", ".jpeg"} {
		if strings.HasSuffix(path, suffix) {
			score -= 3
			break
		}
	}

	if companyLower != "" && strings.Contains(strings.ToLower(title), companyLower) {
		score += 2
	}

	return score
}

// shortlistURLs dedupes the hits, ranks them by scoreURL and keeps the top n.
// Ties keep their search-result order.
func shortlistURLs(company string, hits []SearchHit, n int) []string {
	if n < 1 {
		n = 4
	}

	type rankedHit struct {
		url   string
		score int
		order int
	}

	seen := map[string]bool{}
	ranked := []rankedHit{}
	for i, hit := range hits {
		if hit.URL == "" || seen[hit.URL] {
			continue
		}
		seen[hit.URL] = true
		ranked = append(ranked, rankedHit{
			url:   hit.URL,
			score: scoreURL(hit.URL, hit.Title, company),
			order: i,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	urls := make([]string, 0, len(ranked))
	for _, hit := range ranked {
		urls = append(urls, hit.url)
	}
	return urls
}

// compressPages flattens fetched pages into a single prompt corpus, keeping
// the high-signal parts of each page and stopping at maxCorpusBytes
func compressPages(pages []PageSignals) string {
	var corpus strings.Builder
	for _, page := range pages {
		var block strings.Builder
		fmt.Fprintf(&block, "URL: %s\n", page.URL)
		if page.Title != "" {
			fmt.Fprintf(&block, "TITLE: %s\n", page.Title)
		}
		if page.Description != "" {
			fmt.Fprintf(&block, "META: %s\n", page.Description)
		}
		if len(page.Headings) > 0 {
			fmt.Fprintf(&block, "HEADINGS: %s\n", strings.Join(page.Headings, " | "))
		}
		for _, jsonLD := range page.JSONLD {
			fmt.Fprintf(&block, "JSON_LD: %s\n", jsonLD)
		}
		if snippets := keywordSnippets(page.Text, maxSnippetsPerPage); len(snippets) > 0 {
			fmt.Fprintf(&block, "SNIPPETS:\n")
			for _, snippet := range snippets {
				fmt.Fprintf(&block, "- %s\n", snippet)
			}
		}
		block.WriteString("\n")

		if corpus.Len()+block.Len() > maxCorpusBytes {
			remaining := maxCorpusBytes - corpus.Len()
			if remaining > 0 {
				corpus.WriteString(block.String()[:remaining])
			}
			break
		}
		corpus.WriteString(block.String())
	}
	return strings.TrimSpace(corpus.String())
}

// keywordSnippets pulls up to n windows of text around corpus keywords,
// widening each window to the nearest sentence boundary when one is close
func keywordSnippets(text string, n int) []string {
	if text == "" || n < 1 {
		return nil
	}

	lower := strings.ToLower(text)
	snippets := []string{}
	covered := []int{} // window start offsets already emitted

	for _, keyword := range corpusKeywords {
		if len(snippets) >= n {
			break
		}
		searchFrom := 0
		for len(snippets) < n {
			rel := strings.Index(lower[searchFrom:], keyword)
			if rel < 0 {
				break
			}
			hit := searchFrom + rel
			searchFrom = hit + len(keyword)

			start := hit - 120
			if start < 0 {
				start = 0
			}
			end := hit + 240
			if end > len(text) {
				end = len(text)
			}

			// widen to sentence boundaries when one falls inside the window
			if idx := strings.LastIndex(text[start:hit], ". "); idx >= 0 {
				start += idx + 2
			}
			if idx := strings.Index(text[hit:end], ". "); idx >= 0 {
				end = hit + idx + 1
			}

			overlaps := false
			for _, prev := range covered {
				if start >= prev-240 && start <= prev+240 {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}
			covered = append(covered, start)

			if snippet := strings.TrimSpace(text[start:end]); snippet != "" {
				snippets = append(snippets, snippet)
			}
		}
	}
	return snippets
}
