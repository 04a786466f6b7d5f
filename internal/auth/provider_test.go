package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"studyhub/internal/auth"
	"studyhub/internal/domain"
	"studyhub/internal/infra/memory"
)

func newProvider(now func() time.Time) *auth.Provider {
	return auth.NewProvider(memory.NewStore(), memory.NewRevocations(), "test-secret", time.Hour,
		auth.WithBcryptCost(bcrypt.MinCost), auth.WithClock(now))
}

func TestSignUpSignInVerify(t *testing.T) {
	ctx := context.Background()
	p := newProvider(time.Now)

	userID, err := p.SignUp(ctx, " Alice@Example.com ", "Secret1")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	token, err := p.SignIn(ctx, "alice@example.com", "Secret1")
	require.NoError(t, err)
	require.Equal(t, userID, token.UserID)

	principal, err := p.Verify(ctx, token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID, principal.UserID)
	require.Equal(t, "alice@example.com", principal.Email)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := newProvider(time.Now)

	_, err := p.SignUp(ctx, "bob@example.com", "Secret1")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "BOB@example.com", "Other1")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	p := newProvider(time.Now)

	_, err := p.SignUp(ctx, "carol@example.com", "Secret1")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "carol@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "Secret1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	p := newProvider(time.Now)

	_, err := p.SignUp(ctx, "dan@example.com", "Secret1")
	require.NoError(t, err)
	token, err := p.SignIn(ctx, "dan@example.com", "Secret1")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, token.AccessToken))
	_, err = p.Verify(ctx, token.AccessToken)
	require.True(t, errors.Is(err, domain.ErrUnauthenticated), "expected unauthenticated, got %v", err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	p := newProvider(func() time.Time { return now })

	_, err := p.SignUp(ctx, "eve@example.com", "Secret1")
	require.NoError(t, err)
	token, err := p.SignIn(ctx, "eve@example.com", "Secret1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = p.Verify(ctx, token.AccessToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	issuer := auth.NewProvider(store, memory.NewRevocations(), "secret-a", time.Hour, auth.WithBcryptCost(bcrypt.MinCost))
	verifier := auth.NewProvider(store, memory.NewRevocations(), "secret-b", time.Hour, auth.WithBcryptCost(bcrypt.MinCost))

	_, err := issuer.SignUp(ctx, "fay@example.com", "Secret1")
	require.NoError(t, err)
	token, err := issuer.SignIn(ctx, "fay@example.com", "Secret1")
	require.NoError(t, err)

	_, err = verifier.Verify(ctx, token.AccessToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
