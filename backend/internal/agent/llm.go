package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

const maxLLMRetries = 3

const extractionSystemPrompt = `You are a startup research assistant. You read raw web page extracts about one company and return structured facts about it.

Rules:
- Answer with a single JSON object and nothing else. No markdown, no commentary.
- Only state facts supported by the extracts. Omit any field you cannot source.
- founders lists the people who founded THIS company. Skip investors, advisors and regular employees.
- company_size is one of: early, startup, scaleup, corp.
- previous_companies lists companies a founder built or led before this one.

JSON shape:
` + extractionSchema

const extractionSchema = `{
  "company": {
    "name": "string",
    "website": "https://...",
    "description": "one or two sentences",
    "sector": "string",
    "location": "City, Country",
    "company_size": "early|startup|scaleup|corp",
    "founded_year": 2020,
    "last_funding": "e.g. $12M Series A (2023)"
  },
  "founders": [
    {
      "name": "string",
      "title": "e.g. CEO & Co-founder",
      "education_institution": "string",
      "professional_company": "most recent prior employer",
      "previous_companies": ["string"]
    }
  ]
}`

// Extractor turns a research corpus into a structured company draft via an
// OpenAI-compatible chat completion endpoint
type Extractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewExtractor creates an extractor. baseURL overrides the OpenAI endpoint
// when set, so the extractor works against any compatible gateway.
func NewExtractor(apiKey, baseURL, model string) *Extractor {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Extractor{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.Get(),
	}
}

// ExtractCompany asks the model to distill the fetched corpus into a Draft
func (e *Extractor) ExtractCompany(ctx context.Context, company, corpus string) (*Draft, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Company: %s\n\nWeb extracts:\n%s", company, corpus),
			},
		},
		// 0 would be dropped by the client's omitempty marshalling
		Temperature: 0.1,
		MaxTokens:   600,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < maxLLMRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			e.logger.Warn("Retrying extraction request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, apperrors.NewLLMFailed(e.model, attempt, ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = e.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		e.logger.Error("Extraction request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", e.model),
		)
	}
	if err != nil {
		return nil, apperrors.NewLLMFailed(e.model, maxLLMRetries, err)
	}

	if len(resp.Choices) == 0 {
		return nil, apperrors.NewLLMFailed(e.model, maxLLMRetries, fmt.Errorf("completion returned no choices"))
	}

	return parseDraft(resp.Choices[0].Message.Content)
}

// parseDraft decodes the model reply, tolerating markdown fences and prose
// around the JSON object
func parseDraft(reply string) (*Draft, error) {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(cleaned), &draft); err == nil {
		return &draft, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		var embedded Draft
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &embedded); err == nil {
			return &embedded, nil
		}
	}

	return nil, apperrors.NewAgentFailed("extract", fmt.Errorf("reply is not a company draft: %.120s", cleaned))
}
