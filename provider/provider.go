package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	openai_provider "github.com/SatyaDevireddy/dental-insurance-chatbot/provider/openai"
)

// ErrUnavailable indicates the upstream LLM or embedding capability could not
// be reached or is not configured. Callers degrade the current turn instead
// of failing the process.
var ErrUnavailable = openai_provider.ErrUnavailable

// Message is a single turn of a chat prompt.
type Message = openai_provider.Message

// ModelInfo contains information about an LLM model
type ModelInfo = openai_provider.ModelInfo

// LLMProvider is the contract for text-generation and embedding backends.
// Complete is a single blocking call; callers bound it with a context
// deadline. Embed must be deterministic for identical input so re-ingestion
// produces comparable vectors.
type LLMProvider interface {
	// Complete generates text for an ordered message sequence
	Complete(ctx context.Context, model string, messages []Message) (string, error)

	// CompleteWithTokens generates text and returns prompt/completion token usage
	CompleteWithTokens(ctx context.Context, model string, messages []Message) (string, int64, int64, error)

	// Embed generates vector embeddings for the provided inputs
	Embed(ctx context.Context, model string, input []string) ([][]float32, error)

	// GetAvailableModels returns configured model keys
	GetAvailableModels() []string

	// GetModelInfo returns information about a specific model
	GetModelInfo(model string) (ModelInfo, error)

	// CalculateCost calculates the cost for a given number of tokens
	CalculateCost(inputTokens, outputTokens int64, model string) float64
}

// NewLLMProvider creates a provider from configuration. The "openai" and
// "local" types both speak the OpenAI-compatible chat/embeddings API; local
// only differs in base URL and key handling.
func NewLLMProvider(cfg config.LLMConfig) (LLMProvider, error) {
	if len(cfg.Providers) == 0 {
		return nil, errors.New("no LLM providers configured")
	}
	for name, pc := range cfg.Providers {
		switch pc.Type {
		case "openai", "local", "":
			return openai_provider.New(pc), nil
		default:
			return nil, fmt.Errorf("unsupported LLM provider type %q (provider %s)", pc.Type, name)
		}
	}
	return nil, errors.New("no usable LLM provider found")
}
