package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// ItineraryGeneratorInterface is the external generation collaborator: one
// prompt in, raw model text out. The text is expected to contain one JSON
// array of stops but is not trusted; normalization happens downstream.
type ItineraryGeneratorInterface interface {
	GenerateItineraryJSON(ctx context.Context, prompt string) (string, error)
}

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// NewItineraryGenerator creates either an OpenAI or Gemini backed generator
// based on config.
func NewItineraryGenerator(provider, apiKey, model string) (ItineraryGeneratorInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model)
	case "gemini":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
