package jwt

import (
	"errors"
	"time"

	"meeting-room-booking/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims are issued by the external session service; this service only
// verifies them.
type Claims struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	Capabilities []string  `json:"capabilities"`
	jwt.RegisteredClaims
}

// Actor maps the capability names in the token to an auth.Actor.
func (c *Claims) Actor() (auth.Actor, error) {
	caps := make([]auth.Capability, 0, len(c.Capabilities))
	for _, name := range c.Capabilities {
		capability, err := auth.ParseCapability(name)
		if err != nil {
			return auth.Actor{}, err
		}
		caps = append(caps, capability)
	}
	return auth.NewActor(c.EmployeeID, caps...), nil
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewService(secretKey string, tokenDuration time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

func (s *Service) GenerateToken(employeeID uuid.UUID, caps auth.Capability) (string, error) {
	now := time.Now()
	claims := Claims{
		EmployeeID:   employeeID,
		Capabilities: caps.Names(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employeeID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.EmployeeID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
