package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

const carScanPrompt = `
Analyze this car image and extract the following information:
1. Make (manufacturer)
2. Model
3. Year (approximately)
4. Color
5. Body type (SUV, Sedan, Hatchback, etc.)
6. Mileage
7. Fuel type (your best guess)
8. Transmission type (your best guess)
9. Price (your best guess)
10. Short description as to be added to a car listing

Format your response as a clean JSON object with these fields:
{
  "make": "",
  "model": "",
  "year": 0000,
  "color": "",
  "price": "",
  "mileage": "",
  "bodyType": "",
  "fuelType": "",
  "transmission": "",
  "description": "",
  "confidence": 0.0
}

For confidence, provide a value between 0 and 1 representing how confident you are in your overall identification.
Only respond with the JSON object, nothing else.
`

const imageSearchPrompt = `
Analyze this car image and extract the following information for a search query:
1. Make (manufacturer)
2. Body type (SUV, Sedan, Hatchback, etc.)
3. Color

Format your response as a clean JSON object with these fields:
{
  "make": "",
  "bodyType": "",
  "color": "",
  "confidence": 0.0
}

For confidence, provide a value between 0 and 1 representing how confident you are in your overall identification.
Only respond with the JSON object, nothing else.
`

// requiredScanFields must all be present in the model reply; a missing field
// is a validation error, never silently defaulted.
var requiredScanFields = []string{
	"make", "model", "year", "color", "bodyType", "price",
	"mileage", "fuelType", "transmission", "description", "confidence",
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

type VisionService struct {
	vision   ports.VisionPort
	limiter  ports.RateLimiter
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewVisionService(vision ports.VisionPort, limiter ports.RateLimiter, logger ports.LoggerPort, validate *validator.Validate) *VisionService {
	return &VisionService{
		vision:   vision,
		limiter:  limiter,
		logger:   logger,
		validate: validate,
	}
}

// ProcessCarImage extracts listing attributes from a car photo. The reply
// must contain every required field, including the confidence score.
func (s *VisionService) ProcessCarImage(ctx context.Context, image []byte, mimeType string) (*domain.CarDetails, error) {
	raw, err := s.vision.GenerateJSON(ctx, carScanPrompt, image, mimeType)
	if err != nil {
		s.logger.Error("AI car scan failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	details, err := parseCarDetails(raw)
	if err != nil {
		s.logger.Error("Failed to parse AI car scan response", map[string]interface{}{
			"error": err.Error(),
			"raw":   string(raw),
		})
		return nil, err
	}

	if err := s.validate.Struct(details); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAIResponseInvalid, err)
	}

	s.logger.Info("AI car scan completed", map[string]interface{}{
		"make":       details.Make,
		"model":      details.Model,
		"confidence": details.Confidence,
	})
	return details, nil
}

// ProcessImageSearch extracts search attributes from a photo. The path is
// gated by a token bucket keyed by caller.
func (s *VisionService) ProcessImageSearch(ctx context.Context, callerKey string, image []byte, mimeType string) (*domain.ImageSearchQuery, error) {
	if !s.limiter.Allow(callerKey) {
		s.logger.Warn("Image search rate limited", map[string]interface{}{
			"caller": callerKey,
		})
		return nil, domain.ErrRateLimited
	}

	raw, err := s.vision.GenerateJSON(ctx, imageSearchPrompt, image, mimeType)
	if err != nil {
		s.logger.Error("AI image search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	var query domain.ImageSearchQuery
	if err := json.Unmarshal(raw, &query); err != nil {
		s.logger.Error("Failed to parse AI image search response", map[string]interface{}{
			"error": err.Error(),
			"raw":   string(raw),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrAIResponseInvalid, err)
	}
	return &query, nil
}

// parseCarDetails checks field presence on the raw object before decoding,
// so an absent confidence score is distinguishable from a zero one.
func parseCarDetails(raw []byte) (*domain.CarDetails, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAIResponseInvalid, err)
	}

	var missing []string
	for _, name := range requiredScanFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrAIResponseInvalid, strings.Join(missing, ", "))
	}

	var details domain.CarDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAIResponseInvalid, err)
	}
	details.Price = nonNumeric.ReplaceAllString(details.Price, "")
	details.Mileage = nonNumeric.ReplaceAllString(details.Mileage, "")
	return &details, nil
}
