package app

import (
	"context"
	"strings"

	"studyhub/internal/domain"
)

// Materials covers study-material sharing: teachers publish, students browse and save.
type Materials struct {
	store MaterialStore
}

func NewMaterials(store MaterialStore) *Materials {
	return &Materials{store: store}
}

func (m *Materials) Publish(ctx context.Context, teacherID string, in domain.MaterialInput) (domain.StudyMaterial, error) {
	if err := validateStruct(in); err != nil {
		return domain.StudyMaterial{}, err
	}
	material := domain.StudyMaterial{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		UserID:      teacherID,
	}
	id, err := m.store.CreateMaterial(ctx, material)
	if err != nil {
		return domain.StudyMaterial{}, err
	}
	material.ID = id
	return material, nil
}

// Update replaces a material the teacher owns.
func (m *Materials) Update(ctx context.Context, teacherID, id string, in domain.MaterialInput) (domain.StudyMaterial, error) {
	if err := validateStruct(in); err != nil {
		return domain.StudyMaterial{}, err
	}
	existing, err := m.owned(ctx, teacherID, id)
	if err != nil {
		return domain.StudyMaterial{}, err
	}
	existing.Title = in.Title
	existing.Description = in.Description
	existing.URL = in.URL
	if err := m.store.UpdateMaterial(ctx, existing); err != nil {
		return domain.StudyMaterial{}, err
	}
	return existing, nil
}

func (m *Materials) Delete(ctx context.Context, teacherID, id string) error {
	if _, err := m.owned(ctx, teacherID, id); err != nil {
		return err
	}
	return m.store.DeleteMaterial(ctx, id)
}

// ListOwn lists the materials a teacher published.
func (m *Materials) ListOwn(ctx context.Context, teacherID string) ([]domain.StudyMaterial, error) {
	return m.store.ListMaterials(ctx, teacherID)
}

// Browse lists every material; a non-empty search keeps titles containing it, ignoring case.
func (m *Materials) Browse(ctx context.Context, search string) ([]domain.StudyMaterial, error) {
	all, err := m.store.ListMaterials(ctx, "")
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all, nil
	}
	out := make([]domain.StudyMaterial, 0, len(all))
	for _, material := range all {
		if strings.Contains(strings.ToLower(material.Title), search) {
			out = append(out, material)
		}
	}
	return out, nil
}

// Save copies a material into the student's profile.
func (m *Materials) Save(ctx context.Context, studentID, materialID string) (domain.SavedMaterial, error) {
	material, err := m.store.GetMaterial(ctx, materialID)
	if err != nil {
		return domain.SavedMaterial{}, err
	}
	saved := domain.SavedMaterial{
		MaterialID:  material.ID,
		Title:       material.Title,
		Description: material.Description,
		URL:         material.URL,
		UserID:      studentID,
	}
	id, err := m.store.CreateSaved(ctx, saved)
	if err != nil {
		return domain.SavedMaterial{}, err
	}
	saved.ID = id
	return saved, nil
}

func (m *Materials) ListSaved(ctx context.Context, studentID string) ([]domain.SavedMaterial, error) {
	return m.store.ListSaved(ctx, studentID)
}

// DeleteSaved removes one of the student's saved copies.
func (m *Materials) DeleteSaved(ctx context.Context, studentID, id string) error {
	saved, err := m.store.GetSaved(ctx, id)
	if err != nil {
		return err
	}
	if saved.UserID != studentID {
		return domain.ErrMaterialNotFound
	}
	return m.store.DeleteSaved(ctx, id)
}

func (m *Materials) owned(ctx context.Context, teacherID, id string) (domain.StudyMaterial, error) {
	material, err := m.store.GetMaterial(ctx, id)
	if err != nil {
		return domain.StudyMaterial{}, err
	}
	if material.UserID != teacherID {
		return domain.StudyMaterial{}, domain.ErrForbidden
	}
	return material, nil
}
