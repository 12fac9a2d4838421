package ports

import "context"

// VisionPort runs a multimodal prompt against the generative model and
// returns the raw JSON of its reply (markdown fences stripped).
type VisionPort interface {
	GenerateJSON(ctx context.Context, prompt string, image []byte, mimeType string) ([]byte, error)
}
