package ports

import "github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

type TokenService interface {
	VerifyToken(token string) (*domain.TokenPayload, error)
}
