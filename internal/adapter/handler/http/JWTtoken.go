package http

import (
	"errors"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenService verifies tokens issued by the external identity provider.
// The subject claim carries the provider-side user id; the local user row is
// resolved from it in the auth middleware.
type JWTTokenService struct {
	secretKey []byte
	logger    ports.LoggerPort
}

func NewJWTTokenService(secretKey string, logger ports.LoggerPort) *JWTTokenService {
	return &JWTTokenService{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (j *JWTTokenService) VerifyToken(token string) (*domain.TokenPayload, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})
	if err != nil {
		j.logger.Error("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		j.logger.Error("Failed claims from token", map[string]interface{}{
			"method": "VerifyToken",
		})
		return nil, errors.New("failed to verify")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing sub claim")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("missing email claim")
	}

	payload := &domain.TokenPayload{
		ExternalID: sub,
		Email:      email,
	}
	if name, ok := claims["name"].(string); ok {
		payload.Name = name
	}
	if picture, ok := claims["picture"].(string); ok {
		payload.ImageURL = picture
	}

	return payload, nil
}
