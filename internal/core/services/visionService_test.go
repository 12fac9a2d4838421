package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

type fakeVision struct {
	reply []byte
	err   error
}

func (f *fakeVision) GenerateJSON(_ context.Context, _ string, _ []byte, _ string) ([]byte, error) {
	return f.reply, f.err
}

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (f *fakeLimiter) Allow(key string) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

func newVisionService(vision *fakeVision, limiter *fakeLimiter) *VisionService {
	return NewVisionService(vision, limiter, nopLogger{}, validator.New())
}

const scanReply = `{
	"make": "Honda",
	"model": "Civic",
	"year": 2021,
	"color": "Blue",
	"price": "$22,500",
	"mileage": "30,000 km",
	"bodyType": "Sedan",
	"fuelType": "Petrol",
	"transmission": "Automatic",
	"description": "A well kept compact sedan.",
	"confidence": 0.92
}`

func TestProcessCarImage(t *testing.T) {
	svc := newVisionService(&fakeVision{reply: []byte(scanReply)}, &fakeLimiter{allow: true})

	details, err := svc.ProcessCarImage(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("ProcessCarImage: %v", err)
	}
	if details.Make != "Honda" || details.Model != "Civic" {
		t.Fatalf("details = %+v", details)
	}
	if details.Price != "22500" {
		t.Fatalf("price = %q, want digits only", details.Price)
	}
	if details.Mileage != "30000" {
		t.Fatalf("mileage = %q, want digits only", details.Mileage)
	}
	if details.Confidence != 0.92 {
		t.Fatalf("confidence = %v", details.Confidence)
	}
}

func TestProcessCarImageMissingField(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name: "missing confidence",
			reply: `{
				"make": "Honda", "model": "Civic", "year": 2021, "color": "Blue",
				"price": "22500", "mileage": "30000", "bodyType": "Sedan",
				"fuelType": "Petrol", "transmission": "Automatic",
				"description": "A well kept compact sedan."
			}`,
		},
		{
			name:  "missing almost everything",
			reply: `{"make": "Honda"}`,
		},
		{
			name:  "not an object",
			reply: `"just a string"`,
		},
		{
			name:  "not JSON at all",
			reply: `the model got chatty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newVisionService(&fakeVision{reply: []byte(tt.reply)}, &fakeLimiter{allow: true})
			_, err := svc.ProcessCarImage(context.Background(), []byte("img"), "image/jpeg")
			if !errors.Is(err, domain.ErrAIResponseInvalid) {
				t.Fatalf("err = %v, want ErrAIResponseInvalid", err)
			}
		})
	}
}

func TestProcessCarImageUpstreamError(t *testing.T) {
	upstream := errors.New("model unavailable")
	svc := newVisionService(&fakeVision{err: upstream}, &fakeLimiter{allow: true})

	_, err := svc.ProcessCarImage(context.Background(), []byte("img"), "image/jpeg")
	if !errors.Is(err, upstream) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}

func TestProcessImageSearch(t *testing.T) {
	reply := `{"make": "Toyota", "bodyType": "SUV", "color": "White", "confidence": 0.8}`
	limiter := &fakeLimiter{allow: true}
	svc := newVisionService(&fakeVision{reply: []byte(reply)}, limiter)

	query, err := svc.ProcessImageSearch(context.Background(), "user-1", []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("ProcessImageSearch: %v", err)
	}
	if query.Make != "Toyota" || query.BodyType != "SUV" || query.Color != "White" {
		t.Fatalf("query = %+v", query)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "user-1" {
		t.Fatalf("limiter keys = %v, want [user-1]", limiter.keys)
	}
}

func TestProcessImageSearchRateLimited(t *testing.T) {
	vision := &fakeVision{reply: []byte(`{}`)}
	svc := newVisionService(vision, &fakeLimiter{allow: false})

	_, err := svc.ProcessImageSearch(context.Background(), "1.2.3.4", []byte("img"), "image/png")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestProcessImageSearchInvalidReply(t *testing.T) {
	svc := newVisionService(&fakeVision{reply: []byte("not json")}, &fakeLimiter{allow: true})

	_, err := svc.ProcessImageSearch(context.Background(), "user-1", []byte("img"), "image/png")
	if !errors.Is(err, domain.ErrAIResponseInvalid) {
		t.Fatalf("err = %v, want ErrAIResponseInvalid", err)
	}
}
