package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/wfm-roster/internal/domain"
)

func TestAuthService_LoginAndValidate(t *testing.T) {
	manager := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport)
	manager.Credentials.WFMLogin = "manager1"
	store := newMemoryStore(manager)
	clock := newFakeClock(time.Now())
	svc := NewAuthService(store, clock, "test-secret", time.Hour)

	token, err := svc.Login(context.Background(), " manager1 ")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "e1", claims.OperatorID)
	assert.Equal(t, "manager1", claims.Login)

	clock.Advance(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_LoginRejected(t *testing.T) {
	fired := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusTerminated, teamSupport)
	fired.Credentials.WFMLogin = "fired"
	store := newMemoryStore(fired)
	svc := NewAuthService(store, newFakeClock(time.Now()), "test-secret", time.Hour)

	for _, login := range []string{"fired", "unknown", ""} {
		_, err := svc.Login(context.Background(), login)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, login)
	}
}

func TestAuthService_ValidateTokenWrongSecret(t *testing.T) {
	manager := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport)
	store := newMemoryStore(manager)
	clock := newFakeClock(time.Now())

	token, err := NewAuthService(store, clock, "secret-a", time.Hour).Login(context.Background(), manager.Credentials.WFMLogin)
	require.NoError(t, err)

	_, err = NewAuthService(store, clock, "secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = NewAuthService(store, clock, "secret-a", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
