// Package extraction wraps the language-understanding service that turns
// raw email text into candidate task records. The rest of the system
// treats it as an opaque collaborator behind the Extractor interface.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// ErrMissingAPIKey indicates no Anthropic API key was configured.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY not set")

// Config holds settings for the Anthropic-backed extractor.
type Config struct {
	// Model is the Anthropic model identifier.
	Model string

	// MaxTokens caps the completion length.
	MaxTokens int

	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
}

// Extractor converts email content into an extraction result. A service
// that produced unusable output reports it inside the result envelope
// (Err true); a returned error means the call itself failed.
type Extractor interface {
	Extract(ctx context.Context, emailContent, sender string) (*models.ExtractionResult, error)
}

// anthropicExtractor implements Extractor using langchaingo's Anthropic
// client.
type anthropicExtractor struct {
	llm       llms.Model
	model     string
	maxTokens int
	now       func() time.Time
}

// NewAnthropicExtractor creates an Extractor backed by the Anthropic API.
// The API key comes from cfg.APIKey or the ANTHROPIC_API_KEY environment
// variable.
func NewAnthropicExtractor(cfg Config) (Extractor, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	llm, err := anthropic.New(
		anthropic.WithToken(key),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anthropic client: %w", err)
	}

	return &anthropicExtractor{
		llm:       llm,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		now:       time.Now,
	}, nil
}

// Extract builds the extraction prompt, invokes the model at temperature
// zero, and parses the reply. Malformed model output is reported inside
// the result envelope so the pipeline's single failure path handles it.
func (e *anthropicExtractor) Extract(ctx context.Context, emailContent, sender string) (*models.ExtractionResult, error) {
	prompt := buildExtractionPrompt(emailContent, sender)

	text, err := llms.GenerateFromSinglePrompt(ctx, e.llm, prompt,
		llms.WithTemperature(0),
		llms.WithMaxTokens(e.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("calling extraction model: %w", err)
	}

	result := parseResponse(text)
	result.ExtractedAt = e.now()
	result.Model = e.model
	return result, nil
}
