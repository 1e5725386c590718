package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aidar/wfm-roster/internal/domain"
)

// Claims represents JWT claims
type Claims struct {
	OperatorID string `json:"operator_id"`
	Login      string `json:"wfm_login"`
	jwt.RegisteredClaims
}

// AuthService handles authentication and JWT operations
type AuthService struct {
	store     *Store
	clock     Clock
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(store *Store, clock Clock, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		clock:     clock,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Login issues a token for an employee identified by WFM login.
// Terminated employees cannot log in.
func (s *AuthService) Login(_ context.Context, wfmLogin string) (string, error) {
	wfmLogin = strings.TrimSpace(wfmLogin)

	var operator *domain.Employee
	for _, emp := range s.store.Snapshot().Employees {
		if emp.Credentials.WFMLogin == wfmLogin && emp.Status != domain.StatusTerminated {
			operator = emp
			break
		}
	}
	if wfmLogin == "" || operator == nil {
		return "", domain.ErrUnauthorized
	}

	now := s.clock.Now()
	claims := &Claims{
		OperatorID: operator.ID,
		Login:      operator.Credentials.WFMLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
