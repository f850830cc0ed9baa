package agent

import (
	"strings"
	"testing"
)

func TestScoreURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		title   string
		company string
		want    int
	}{
		{
			name:    "own domain root",
			url:     "https://kili-technology.com/",
			title:   "Kili Technology - Data Labeling",
			company: "Kili Technology",
			want:    7,
		},
		{
			name:    "own domain about page",
			url:     "https://kili-technology.com/about",
			title:   "",
			company: "Kili Technology",
			want:    9,
		},
		{
			name:    "wikipedia article",
			url:     "https://en.wikipedia.org/wiki/Kili_Technology",
			title:   "Kili Technology - Wikipedia",
			company: "Kili Technology",
			want:    5,
		},
		{
			name:    "linkedin company page",
			url:     "https://www.linkedin.com/company/kili-technology/",
			title:   "Kili Technology | LinkedIn",
			company: "Kili Technology",
			want:    9,
		},
		{
			name:    "pdf penalised",
			url:     "https://example.com/whitepaper.pdf",
			title:   "",
			company: "Kili Technology",
			want:    -3,
		},
		{
			name:    "unrelated blog",
			url:     "https://randomblog.net/post/123",
			title:   "Ten AI startups to watch",
			company: "Kili Technology",
			want:    0,
		},
		{
			name:    "unparseable URL",
			url:     "https://bad host/",
			title:   "",
			company: "Kili",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreURL(tt.url, tt.title, tt.company); got != tt.want {
				t.Errorf("scoreURL(%q) = %d, want %d", tt.url, got, tt.want)
			}
		})
	}
}

func TestShortlistURLs(t *testing.T) {
	hits := []SearchHit{
		{Title: "Ten AI startups to watch", URL: "https://randomblog.net/post"},
		{Title: "Kili Technology - Wikipedia", URL: "https://en.wikipedia.org/wiki/Kili_Technology"},
		{Title: "", URL: "https://kili-technology.com/about"},
		{Title: "Kili Technology - Wikipedia", URL: "https://en.wikipedia.org/wiki/Kili_Technology"},
		{Title: "Missing URL", URL: ""},
		{Title: "Kili Technology", URL: "https://kili-technology.com/"},
	}

	got := shortlistURLs("Kili Technology", hits, 3)
	want := []string{
		"https://kili-technology.com/about",
		"https://kili-technology.com/",
		"https://en.wikipedia.org/wiki/Kili_Technology",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d URLs, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Shortlist position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestShortlistURLs_DefaultCap(t *testing.T) {
	hits := []SearchHit{
		{URL: "https://a.example.com", Title: "a"},
		{URL: "https://b.example.com", Title: "b"},
		{URL: "https://c.example.com", Title: "c"},
		{URL: "https://d.example.com", Title: "d"},
		{URL: "https://e.example.com", Title: "e"},
	}
	if got := shortlistURLs("Acme", hits, 0); len(got) != 4 {
		t.Errorf("Expected default cap of 4, got %d", len(got))
	}
}

func TestShortlistURLs_TiesKeepSearchOrder(t *testing.T) {
	hits := []SearchHit{
		{URL: "https://first.example.com/x", Title: "first"},
		{URL: "https://second.example.com/y", Title: "second"},
	}
	got := shortlistURLs("Acme", hits, 2)
	if len(got) != 2 || got[0] != "https://first.example.com/x" || got[1] != "https://second.example.com/y" {
		t.Errorf("Expected tied hits in search order, got %v", got)
	}
}

func TestKeywordSnippets(t *testing.T) {
	text := "The company was founded in 2019 by Jane."
	snippets := keywordSnippets(text, 5)
	if len(snippets) != 1 {
		t.Fatalf("Expected 1 snippet, got %d: %v", len(snippets), snippets)
	}
	if snippets[0] != text {
		t.Errorf("Expected the founding sentence, got '%s'", snippets[0])
	}
}

func TestKeywordSnippets_Limits(t *testing.T) {
	if got := keywordSnippets("", 5); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
	if got := keywordSnippets("nothing relevant here", 5); len(got) != 0 {
		t.Errorf("Expected no snippets without keywords, got %v", got)
	}

	var text strings.Builder
	for i := 0; i < 10; i++ {
		text.WriteString("The founder spoke. ")
		text.WriteString(strings.Repeat("Unrelated filler sentence padding the distance between mentions. ", 10))
	}
	snippets := keywordSnippets(text.String(), 3)
	if len(snippets) > 3 {
		t.Errorf("Expected at most 3 snippets, got %d", len(snippets))
	}
	for _, snippet := range snippets {
		if !strings.Contains(strings.ToLower(snippet), "founder") {
			t.Errorf("Expected snippet to contain its keyword, got '%s'", snippet)
		}
	}
}

func TestCompressPages(t *testing.T) {
	pages := []PageSignals{
		{
			URL:         "https://acme.dev",
			Title:       "Acme",
			Description: "Developer tools",
			Headings:    []string{"About us", "Careers"},
			JSONLD:      []string{`{"@type":"Organization","name":"Acme"}`},
			Text:        "Acme was founded in 2019 by Jane Doe.",
		},
	}

	corpus := compressPages(pages)
	for _, want := range []string{
		"URL: https://acme.dev",
		"TITLE: Acme",
		"META: Developer tools",
		"HEADINGS: About us | Careers",
		`JSON_LD: {"@type":"Organization","name":"Acme"}`,
		"SNIPPETS:",
		"- Acme was founded in 2019 by Jane Doe.",
	} {
		if !strings.Contains(corpus, want) {
			t.Errorf("Expected corpus to contain %q, got:\n%s", want, corpus)
		}
	}
}

func TestCompressPages_CapsSize(t *testing.T) {
	pages := []PageSignals{
		{URL: "https://one.example.com", Title: strings.Repeat("t", 9000)},
		{URL: "https://two.example.com", Title: strings.Repeat("u", 9000)},
		{URL: "https://three.example.com", Title: strings.Repeat("v", 9000)},
	}

	corpus := compressPages(pages)
	if len(corpus) > maxCorpusBytes {
		t.Errorf("Expected corpus capped at %d bytes, got %d", maxCorpusBytes, len(corpus))
	}
	if !strings.HasPrefix(corpus, "URL: https://one.example.com") {
		t.Errorf("Expected first page to lead the corpus, got prefix '%s'", corpus[:40])
	}
}
