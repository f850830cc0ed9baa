package agent

import (
	"strings"
	"testing"
)

const duckduckgoFixture = `<!DOCTYPE html>
<html>
<body>
  <div class="results">
    <div class="result results_links results_links_deep web-result">
      <div class="links_main links_deep result__body">
        <h2 class="result__title">
          <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fkili-technology.com%2F&amp;rut=abc123">Kili Technology - Data Labeling Platform</a>
        </h2>
        <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fkili-technology.com%2F">Kili Technology provides a
          data labeling platform   for enterprise AI.</a>
      </div>
    </div>
    <div class="result results_links results_links_deep web-result">
      <div class="links_main links_deep result__body">
        <h2 class="result__title">
          <a rel="nofollow" class="result__a" href="https://en.wikipedia.org/wiki/Kili_Technology">Kili Technology - Wikipedia</a>
        </h2>
        <a class="result__snippet" href="https://en.wikipedia.org/wiki/Kili_Technology">Kili Technology is a French startup founded in 2018.</a>
      </div>
    </div>
    <div class="result">
      <h2 class="result__title">
        <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2F"></a>
      </h2>
    </div>
    <div class="result result--ad">
      <h2 class="result__title">No anchor here</h2>
    </div>
  </div>
</body>
</html>`

func TestParseSearchResults(t *testing.T) {
	hits, err := parseSearchResults(strings.NewReader(duckduckgoFixture))
	if err != nil {
		t.Fatalf("parseSearchResults failed: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d: %+v", len(hits), hits)
	}

	if hits[0].URL != "https://kili-technology.com/" {
		t.Errorf("Expected unwrapped redirect URL, got '%s'", hits[0].URL)
	}
	if hits[0].Title != "Kili Technology - Data Labeling Platform" {
		t.Errorf("Unexpected title '%s'", hits[0].Title)
	}
	if hits[0].Snippet != "Kili Technology provides a data labeling platform for enterprise AI." {
		t.Errorf("Expected whitespace-collapsed snippet, got '%s'", hits[0].Snippet)
	}

	if hits[1].URL != "https://en.wikipedia.org/wiki/Kili_Technology" {
		t.Errorf("Expected direct URL to pass through, got '%s'", hits[1].URL)
	}
}

func TestParseSearchResults_EmptyPage(t *testing.T) {
	hits, err := parseSearchResults(strings.NewReader("<html><body><p>No results.</p></body></html>"))
	if err != nil {
		t.Fatalf("parseSearchResults failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Expected no hits, got %d", len(hits))
	}
}

func TestUnwrapResultURL(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "redirect wrapper",
			href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fdeepip.ai%2Fabout&rut=xyz",
			want: "https://deepip.ai/about",
		},
		{
			name: "absolute redirect wrapper",
			href: "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fkili-technology.com%2F",
			want: "https://kili-technology.com/",
		},
		{
			name: "direct absolute URL",
			href: "https://example.com/team",
			want: "https://example.com/team",
		},
		{
			name: "relative URL dropped",
			href: "/html/?q=next-page",
			want: "",
		},
		{
			name: "unparseable dropped",
			href: "https://example.com/%zz",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapResultURL(tt.href); got != tt.want {
				t.Errorf("unwrapResultURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
