package memory

import (
	"context"

	"studyhub/internal/domain"
)

func (s *Store) CreateMaterial(_ context.Context, m domain.StudyMaterial) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.newID()
	s.materials[m.ID] = m
	s.matOrder = append(s.matOrder, m.ID)
	return m.ID, nil
}

func (s *Store) GetMaterial(_ context.Context, id string) (domain.StudyMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[id]
	if !ok {
		return domain.StudyMaterial{}, domain.ErrMaterialNotFound
	}
	return m, nil
}

func (s *Store) UpdateMaterial(_ context.Context, m domain.StudyMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[m.ID]; !ok {
		return domain.ErrMaterialNotFound
	}
	s.materials[m.ID] = m
	return nil
}

func (s *Store) DeleteMaterial(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[id]; !ok {
		return domain.ErrMaterialNotFound
	}
	delete(s.materials, id)
	s.matOrder = removeID(s.matOrder, id)
	return nil
}

func (s *Store) ListMaterials(_ context.Context, ownerID string) ([]domain.StudyMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StudyMaterial, 0, len(s.matOrder))
	for _, id := range s.matOrder {
		m := s.materials[id]
		if ownerID == "" || m.UserID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) CreateSaved(_ context.Context, sm domain.SavedMaterial) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sm.ID = s.newID()
	s.saved[sm.ID] = sm
	s.savOrder = append(s.savOrder, sm.ID)
	return sm.ID, nil
}

func (s *Store) GetSaved(_ context.Context, id string) (domain.SavedMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sm, ok := s.saved[id]
	if !ok {
		return domain.SavedMaterial{}, domain.ErrMaterialNotFound
	}
	return sm, nil
}

func (s *Store) ListSaved(_ context.Context, userID string) ([]domain.SavedMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SavedMaterial, 0)
	for _, id := range s.savOrder {
		if sm := s.saved[id]; sm.UserID == userID {
			out = append(out, sm)
		}
	}
	return out, nil
}

func (s *Store) DeleteSaved(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[id]; !ok {
		return domain.ErrMaterialNotFound
	}
	delete(s.saved, id)
	s.savOrder = removeID(s.savOrder, id)
	return nil
}
