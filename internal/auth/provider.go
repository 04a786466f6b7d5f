package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studyhub/internal/domain"
)

// CredentialStore persists accounts by normalized email.
type CredentialStore interface {
	// CreateCredential returns domain.ErrEmailTaken for a duplicate email.
	CreateCredential(ctx context.Context, c domain.Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error)
}

// RevocationStore remembers signed-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims is the payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Provider is the identity provider: bcrypt password hashes and HS256 tokens.
type Provider struct {
	creds       CredentialStore
	revocations RevocationStore
	secret      []byte
	issuer      string
	ttl         time.Duration
	cost        int
	now         func() time.Time
}

// Option customizes a Provider.
type Option func(*Provider)

// WithClock is used by tests to control token timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

func NewProvider(creds CredentialStore, revocations RevocationStore, secret string, ttl time.Duration, opts ...Option) *Provider {
	p := &Provider{
		creds:       creds,
		revocations: revocations,
		secret:      []byte(secret),
		issuer:      "studyhub",
		ttl:         ttl,
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	cred := domain.Credential{
		UserID:       uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.creds.CreateCredential(ctx, cred); err != nil {
		return "", err
	}
	return cred.UserID, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (domain.Token, error) {
	cred, err := p.creds.GetCredentialByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return domain.Token{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Token{}, fmt.Errorf("load credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return domain.Token{}, domain.ErrInvalidCredentials
	}

	now := p.now()
	expiresAt := now.Add(p.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    p.issuer,
			Subject:   cred.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: cred.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return domain.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.Token{AccessToken: signed, UserID: cred.UserID, ExpiresAt: expiresAt.UTC()}, nil
}

// SignOut revokes token for the rest of its lifetime.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	principal, err := p.Verify(ctx, token)
	if err != nil {
		return err
	}
	return p.revocations.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}

func (p *Provider) Verify(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	revoked, err := p.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return domain.Principal{}, fmt.Errorf("%w: token revoked", domain.ErrUnauthenticated)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return domain.Principal{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
