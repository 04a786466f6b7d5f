package postgres

import (
	"context"
	"fmt"

	"studyhub/internal/domain"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p    domain.Profile
		role string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, name, age, role FROM profiles WHERE user_id=$1`, userID,
	).Scan(&p.UserID, &p.Name, &p.Age, &role)
	if err != nil {
		return domain.Profile{}, notFound(err, domain.ErrProfileNotFound, "get profile")
	}
	p.Role = domain.Role(role)
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, name, age, role) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET name=EXCLUDED.name, age=EXCLUDED.age, role=EXCLUDED.role`,
		p.UserID, p.Name, p.Age, string(p.Role),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// CreateCredential inserts c; an existing email yields domain.ErrEmailTaken.
func (s *Store) CreateCredential(ctx context.Context, c domain.Credential) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`,
		c.UserID, c.Email, c.PasswordHash, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmailTaken
	}
	return nil
}

func (s *Store) GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error) {
	var c domain.Credential
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, email, password_hash, created_at FROM credentials WHERE email=$1`, email,
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return domain.Credential{}, notFound(err, domain.ErrCredentialNotFound, "get credential")
	}
	return c, nil
}
