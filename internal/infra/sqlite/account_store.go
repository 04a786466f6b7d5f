package sqlite

import (
	"context"
	"time"

	"studyhub/internal/domain"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p    domain.Profile
		role string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, age, role FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Name, &p.Age, &role)
	if err != nil {
		return domain.Profile{}, rowNotFound(err, domain.ErrProfileNotFound)
	}
	p.Role = domain.Role(role)
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO profiles (user_id, name, age, role) VALUES (?, ?, ?, ?)`,
		p.UserID, p.Name, p.Age, string(p.Role),
	)
	return err
}

func (s *Store) CreateCredential(ctx context.Context, c domain.Credential) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO credentials (user_id, email, password_hash, created_at_unix) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Email, c.PasswordHash, c.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return err
	}
	return affected(res, domain.ErrEmailTaken)
}

func (s *Store) GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error) {
	var (
		c    domain.Credential
		unix int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, created_at_unix FROM credentials WHERE email = ?`, email,
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &unix)
	if err != nil {
		return domain.Credential{}, rowNotFound(err, domain.ErrCredentialNotFound)
	}
	c.CreatedAt = time.Unix(0, unix).UTC()
	return c, nil
}
