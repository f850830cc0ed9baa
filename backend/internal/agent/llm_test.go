package agent

import (
	"context"
	"os"
	"testing"
	"time"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

const draftJSON = `{
  "company": {
    "name": "Kili Technology",
    "website": "https://kili-technology.com",
    "sector": "AI/ML",
    "company_size": "scaleup",
    "founded_year": 2018
  },
  "founders": [
    {"name": "Edouard d'Archimbaud", "title": "CTO & Co-founder", "professional_company": "BNP Paribas"}
  ]
}`

func TestParseDraft_PlainJSON(t *testing.T) {
	draft, err := parseDraft(draftJSON)
	if err != nil {
		t.Fatalf("parseDraft failed: %v", err)
	}
	if draft.Company.Name != "Kili Technology" {
		t.Errorf("Expected company name 'Kili Technology', got '%s'", draft.Company.Name)
	}
	if draft.Company.FoundedYear != 2018 {
		t.Errorf("Expected founded year 2018, got %d", draft.Company.FoundedYear)
	}
	if len(draft.Founders) != 1 || draft.Founders[0].ProfessionalCompany != "BNP Paribas" {
		t.Errorf("Unexpected founders: %+v", draft.Founders)
	}
}

func TestParseDraft_FencedJSON(t *testing.T) {
	for _, fence := range []string{
		"```json\n" + draftJSON + "\n```",
		"```\n" + draftJSON + "\n```",
	} {
		draft, err := parseDraft(fence)
		if err != nil {
			t.Fatalf("parseDraft failed on fenced reply: %v", err)
		}
		if draft.Company.Name != "Kili Technology" {
			t.Errorf("Expected company name from fenced reply, got '%s'", draft.Company.Name)
		}
	}
}

func TestParseDraft_ProseWrappedJSON(t *testing.T) {
	reply := "Here is the extracted company:\n" + draftJSON + "\nLet me know if you need more."
	draft, err := parseDraft(reply)
	if err != nil {
		t.Fatalf("parseDraft failed on prose-wrapped reply: %v", err)
	}
	if draft.Company.Website != "https://kili-technology.com" {
		t.Errorf("Expected website from embedded JSON, got '%s'", draft.Company.Website)
	}
}

func TestParseDraft_Invalid(t *testing.T) {
	_, err := parseDraft("I could not find any information about that company.")
	if err == nil {
		t.Fatal("Expected an error for a reply without JSON")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeAgent) {
		t.Errorf("Expected an agent error, got %v", err)
	}
}

func TestExtractor_ExtractCompany(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	extractor := NewExtractor(apiKey, os.Getenv("OPENAI_BASE_URL"), "gpt-4o-mini")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	corpus := `URL: https://kili-technology.com
TITLE: Kili Technology - Data Labeling Platform
META: Kili Technology provides a data labeling platform for enterprise AI.
SNIPPETS:
- Kili Technology was founded in 2018 in Paris by Francois-Xavier Leduc and Edouard d'Archimbaud.
- Edouard d'Archimbaud previously built the AI Lab at BNP Paribas.`

	draft, err := extractor.ExtractCompany(ctx, "Kili Technology", corpus)
	if err != nil {
		t.Fatalf("ExtractCompany failed: %v", err)
	}
	if draft.Company.Name == "" {
		t.Error("Expected a company name in the draft")
	}
	if len(draft.Founders) == 0 {
		t.Error("Expected at least one founder in the draft")
	}
}
