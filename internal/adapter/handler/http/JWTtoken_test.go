package http

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type testLogger struct{}

func (testLogger) Debug(string, map[string]interface{}) {}
func (testLogger) Info(string, map[string]interface{})  {}
func (testLogger) Warn(string, map[string]interface{})  {}
func (testLogger) Error(string, map[string]interface{}) {}

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyToken(t *testing.T) {
	svc := NewJWTTokenService(testSecret, testLogger{})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":     "ext-123",
		"email":   "user@example.com",
		"name":    "Test User",
		"picture": "https://example.com/avatar.png",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	payload, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.ExternalID != "ext-123" {
		t.Fatalf("external ID = %q", payload.ExternalID)
	}
	if payload.Email != "user@example.com" {
		t.Fatalf("email = %q", payload.Email)
	}
	if payload.Name != "Test User" || payload.ImageURL != "https://example.com/avatar.png" {
		t.Fatalf("optional claims not mapped: %+v", payload)
	}
}

func TestVerifyTokenOptionalClaimsAbsent(t *testing.T) {
	svc := NewJWTTokenService(testSecret, testLogger{})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "ext-123",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	payload, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.Name != "" || payload.ImageURL != "" {
		t.Fatalf("expected empty optional claims, got %+v", payload)
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	svc := NewJWTTokenService(testSecret, testLogger{})

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "ext-123",
		"email": "user@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub":   "ext-123",
		"email": "user@example.com",
	})
	noSub := signToken(t, testSecret, jwt.MapClaims{
		"email": "user@example.com",
	})
	noEmail := signToken(t, testSecret, jwt.MapClaims{
		"sub": "ext-123",
	})

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong signing key", token: wrongKey},
		{name: "missing sub", token: noSub},
		{name: "missing email", token: noEmail},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.VerifyToken(tt.token); err == nil {
				t.Fatalf("expected error for %s token", tt.name)
			}
		})
	}
}

func TestDecodeImageDataURI(t *testing.T) {
	// "hi" base64-encoded is aGk=
	upload, err := decodeImageDataURI("data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("decode data URI: %v", err)
	}
	if string(upload.Data) != "hi" || upload.ContentType != "image/png" {
		t.Fatalf("got %q, %q", upload.Data, upload.ContentType)
	}

	upload, err = decodeImageDataURI("aGk=")
	if err != nil {
		t.Fatalf("decode bare base64: %v", err)
	}
	if string(upload.Data) != "hi" || upload.ContentType != "image/jpeg" {
		t.Fatalf("got %q, %q", upload.Data, upload.ContentType)
	}

	if _, err := decodeImageDataURI("data:image/png,no-base64-marker"); err == nil {
		t.Fatalf("expected error for malformed data URI")
	}
	if _, err := decodeImageDataURI("!!!not-base64!!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}
