package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const csrfPurpose = "csrf"

var ErrInvalidCSRF = errors.New("invalid csrf token")

// CSRFService issues and checks short-lived form tokens. They are signed
// with the server secret and carry no user identity.
type CSRFService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCSRFService creates a new CSRF token service
func NewCSRFService(secret string, ttl time.Duration) *CSRFService {
	return &CSRFService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a fresh token
func (s *CSRFService) Issue() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"purpose": csrfPurpose,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign csrf token: %w", err)
	}
	return token, nil
}

// Verify accepts only unexpired tokens minted by Issue
func (s *CSRFService) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return ErrInvalidCSRF
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != csrfPurpose {
		return ErrInvalidCSRF
	}
	return nil
}
