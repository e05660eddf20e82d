package embedding

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/factweave/factweave/pkg/errors"
)

// DefaultGeminiModel is the embedding model used when none is configured.
const DefaultGeminiModel = "gemini-embedding-001"

// Gemini embeds text through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed embedder. The API key falls back to
// the GEMINI_API_KEY environment variable; model falls back to
// DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.NewValidationError("api_key", nil, "Gemini API key required for embedding")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Embed implements Embedder.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.ErrInvalidInput
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding %q: %w", text, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding response")
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}
