package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/safesend/internal/client/repositories/metadata"
)

// Preference is one locally stored CLI setting.
type Preference struct {
	Key   string
	Value string
}

// PreferencesService exposes everything kept in the local metadata store.
type PreferencesService interface {
	All(ctx context.Context) ([]Preference, error)
	ResetAll(ctx context.Context) error
}

type preferencesService struct {
	repo metadata.Repository
}

func NewPreferencesService(repo metadata.Repository) PreferencesService {
	return &preferencesService{repo: repo}
}

// All returns the stored settings ordered by key.
func (s *preferencesService) All(ctx context.Context) ([]Preference, error) {
	m, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Preference, 0, len(m))
	for k, v := range m {
		out = append(out, Preference{Key: k, Value: string(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *preferencesService) ResetAll(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
