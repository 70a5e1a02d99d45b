package usecase

import (
	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/pkg/jwt"
)

// TokenValidator resolves a bearer token to the actor the core acts for.
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (auth.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return auth.Actor{}, err
	}
	return claims.Actor()
}
