// Package agent researches a company on the public web and produces a
// structured draft: search, page fetching, signal extraction and an LLM
// distillation pass, stitched into one pipeline.
package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewenmichel/wdiw/backend/pkg/config"
	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

var searchQueryTemplates = []string{
	"%s official site about",
	"%s founders",
	"%s wikipedia",
	"%s crunchbase",
	"%s linkedin company",
}

// Researcher runs the research pipeline for one company at a time
type Researcher struct {
	extractor   *Extractor
	client      *http.Client
	maxResults  int
	concurrency int
	logger      *zap.Logger
}

// NewResearcher wires a researcher from the loaded configuration
func NewResearcher(cfg *config.Config) *Researcher {
	maxResults := cfg.AgentSearchResults
	if maxResults < 1 {
		maxResults = 4
	}
	concurrency := cfg.AgentFetchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Researcher{
		extractor:   NewExtractor(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel),
		client:      &http.Client{Timeout: time.Duration(cfg.AgentHTTPTimeout) * time.Second},
		maxResults:  maxResults,
		concurrency: concurrency,
		logger:      logger.Get(),
	}
}

// Research looks a company up on the web and returns an extracted draft.
// The draft is not persisted; callers decide what to do with it.
func (r *Researcher) Research(ctx context.Context, company string) (*Draft, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, apperrors.NewValidation("company", "must not be empty")
	}

	runID := uuid.NewString()
	r.logger.Info("Research run started",
		zap.String("run_id", runID),
		zap.String("company", company),
	)

	hits := r.searchAll(ctx, company)
	shortlist := shortlistURLs(company, hits, r.maxResults)
	if len(shortlist) == 0 {
		return nil, apperrors.NewAgentFailed("search", fmt.Errorf("no search results for %q", company))
	}

	pages := r.fetchPages(ctx, shortlist)
	if len(pages) == 0 {
		return nil, apperrors.NewAgentFailed("fetch", fmt.Errorf("none of the %d shortlisted pages could be fetched", len(shortlist)))
	}

	corpus := compressPages(pages)
	if corpus == "" {
		return nil, apperrors.NewAgentFailed("fetch", fmt.Errorf("fetched pages carried no usable text"))
	}

	draft, err := r.extractor.ExtractCompany(ctx, company, corpus)
	if err != nil {
		return nil, err
	}

	draft.normalize(company, runID)
	for _, page := range pages {
		draft.Sources = append(draft.Sources, page.URL)
	}

	r.logger.Info("Research run completed",
		zap.String("run_id", runID),
		zap.String("company", draft.Company.Name),
		zap.Int("founders", len(draft.Founders)),
		zap.Int("sources", len(draft.Sources)),
	)
	return draft, nil
}

// searchAll fans the company name out over the query templates and merges
// the hits, deduped by URL in result order. Failed queries are logged and
// skipped.
func (r *Researcher) searchAll(ctx context.Context, company string) []SearchHit {
	seen := map[string]bool{}
	merged := []SearchHit{}
	for _, template := range searchQueryTemplates {
		query := fmt.Sprintf(template, company)
		hits, err := searchWeb(ctx, r.client, query)
		if err != nil {
			r.logger.Warn("Search query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		for _, hit := range hits {
			if hit.URL == "" || seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			merged = append(merged, hit)
		}
	}
	return merged
}
