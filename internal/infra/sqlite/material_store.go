package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/domain"
)

func (s *Store) CreateMaterial(ctx context.Context, m domain.StudyMaterial) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO study_materials (id, title, description, url, user_id, created_at_unix) VALUES (?, ?, ?, ?, ?, ?)`,
		id, m.Title, m.Description, m.URL, m.UserID, time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetMaterial(ctx context.Context, id string) (domain.StudyMaterial, error) {
	var m domain.StudyMaterial
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, url, user_id FROM study_materials WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.URL, &m.UserID)
	if err != nil {
		return domain.StudyMaterial{}, rowNotFound(err, domain.ErrMaterialNotFound)
	}
	return m, nil
}

func (s *Store) UpdateMaterial(ctx context.Context, m domain.StudyMaterial) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE study_materials SET title = ?, description = ?, url = ? WHERE id = ?`,
		m.Title, m.Description, m.URL, m.ID,
	)
	if err != nil {
		return err
	}
	return affected(res, domain.ErrMaterialNotFound)
}

func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM study_materials WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, domain.ErrMaterialNotFound)
}

func (s *Store) ListMaterials(ctx context.Context, ownerID string) ([]domain.StudyMaterial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, url, user_id FROM study_materials
		WHERE ? = '' OR user_id = ?
		ORDER BY created_at_unix, rowid`, ownerID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := []domain.StudyMaterial{}
	for rows.Next() {
		var m domain.StudyMaterial
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.URL, &m.UserID); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (s *Store) CreateSaved(ctx context.Context, sm domain.SavedMaterial) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_materials (id, material_id, title, description, url, user_id, created_at_unix)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sm.MaterialID, sm.Title, sm.Description, sm.URL, sm.UserID, time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetSaved(ctx context.Context, id string) (domain.SavedMaterial, error) {
	var sm domain.SavedMaterial
	err := s.db.QueryRowContext(ctx,
		`SELECT id, material_id, title, description, url, user_id FROM saved_materials WHERE id = ?`, id,
	).Scan(&sm.ID, &sm.MaterialID, &sm.Title, &sm.Description, &sm.URL, &sm.UserID)
	if err != nil {
		return domain.SavedMaterial{}, rowNotFound(err, domain.ErrMaterialNotFound)
	}
	return sm, nil
}

func (s *Store) ListSaved(ctx context.Context, userID string) ([]domain.SavedMaterial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, material_id, title, description, url, user_id FROM saved_materials
		WHERE user_id = ? ORDER BY created_at_unix, rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := []domain.SavedMaterial{}
	for rows.Next() {
		var sm domain.SavedMaterial
		if err := rows.Scan(&sm.ID, &sm.MaterialID, &sm.Title, &sm.Description, &sm.URL, &sm.UserID); err != nil {
			return nil, err
		}
		saved = append(saved, sm)
	}
	return saved, rows.Err()
}

func (s *Store) DeleteSaved(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_materials WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, domain.ErrMaterialNotFound)
}
