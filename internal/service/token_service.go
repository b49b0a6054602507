package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/config"
)

var ErrInvalidToken = errors.New("invalid token claims")

// TokenType distinguishes stream tokens from any future token kinds.
type TokenType string

const TokenTypeCandidate TokenType = "candidate"

// Claims extends JWT standard claims with the candidate a stream token is
// scoped to.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   TokenType `json:"token_type"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

// TokenService issues and validates candidate-scoped stream tokens.
type TokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// GenerateCandidateToken signs a token that lets its bearer open the live
// interview stream of one candidate.
func (s *TokenService) GenerateCandidateToken(candidateID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   candidateID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		TokenType:   TokenTypeCandidate,
		CandidateID: candidateID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *TokenService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != TokenTypeCandidate {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
