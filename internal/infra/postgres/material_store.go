package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studyhub/internal/domain"
)

func (s *Store) CreateMaterial(ctx context.Context, m domain.StudyMaterial) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO study_materials (id, title, description, url, user_id) VALUES ($1, $2, $3, $4, $5)`,
		id, m.Title, m.Description, m.URL, m.UserID,
	)
	if err != nil {
		return "", fmt.Errorf("create material: %w", err)
	}
	return id, nil
}

func (s *Store) GetMaterial(ctx context.Context, id string) (domain.StudyMaterial, error) {
	var m domain.StudyMaterial
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, url, user_id FROM study_materials WHERE id=$1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.URL, &m.UserID)
	if err != nil {
		return domain.StudyMaterial{}, notFound(err, domain.ErrMaterialNotFound, "get material")
	}
	return m, nil
}

func (s *Store) UpdateMaterial(ctx context.Context, m domain.StudyMaterial) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE study_materials SET title=$2, description=$3, url=$4 WHERE id=$1`,
		m.ID, m.Title, m.Description, m.URL,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM study_materials WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

// ListMaterials lists every material, or only ownerID's when it is set.
func (s *Store) ListMaterials(ctx context.Context, ownerID string) ([]domain.StudyMaterial, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, url, user_id FROM study_materials
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	materials := []domain.StudyMaterial{}
	for rows.Next() {
		var m domain.StudyMaterial
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.URL, &m.UserID); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (s *Store) CreateSaved(ctx context.Context, sm domain.SavedMaterial) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_materials (id, material_id, title, description, url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, sm.MaterialID, sm.Title, sm.Description, sm.URL, sm.UserID,
	)
	if err != nil {
		return "", fmt.Errorf("save material: %w", err)
	}
	return id, nil
}

func (s *Store) GetSaved(ctx context.Context, id string) (domain.SavedMaterial, error) {
	var sm domain.SavedMaterial
	err := s.pool.QueryRow(ctx,
		`SELECT id, material_id, title, description, url, user_id FROM saved_materials WHERE id=$1`, id,
	).Scan(&sm.ID, &sm.MaterialID, &sm.Title, &sm.Description, &sm.URL, &sm.UserID)
	if err != nil {
		return domain.SavedMaterial{}, notFound(err, domain.ErrMaterialNotFound, "get saved material")
	}
	return sm, nil
}

func (s *Store) ListSaved(ctx context.Context, userID string) ([]domain.SavedMaterial, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, material_id, title, description, url, user_id FROM saved_materials
		WHERE user_id=$1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved materials: %w", err)
	}
	defer rows.Close()

	saved := []domain.SavedMaterial{}
	for rows.Next() {
		var sm domain.SavedMaterial
		if err := rows.Scan(&sm.ID, &sm.MaterialID, &sm.Title, &sm.Description, &sm.URL, &sm.UserID); err != nil {
			return nil, fmt.Errorf("scan saved material: %w", err)
		}
		saved = append(saved, sm)
	}
	return saved, rows.Err()
}

func (s *Store) DeleteSaved(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_materials WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete saved material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}
