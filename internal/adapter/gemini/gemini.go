package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAdapter sends multimodal prompts to the Gemini API.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, model string) (*GeminiAdapter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

func (a *GeminiAdapter) GenerateJSON(ctx context.Context, prompt string, image []byte, mimeType string) ([]byte, error) {
	model := a.client.GenerativeModel(a.model)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(formatFromMIME(mimeType), image),
		genai.Text(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return []byte(stripFences(sb.String())), nil
}

func (a *GeminiAdapter) Close() error {
	return a.client.Close()
}

// formatFromMIME maps "image/jpeg" to the bare format name the API expects.
func formatFromMIME(mimeType string) string {
	if idx := strings.IndexByte(mimeType, '/'); idx >= 0 {
		return mimeType[idx+1:]
	}
	return mimeType
}

// stripFences removes the ```json markdown fences the model tends to wrap
// its reply in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
