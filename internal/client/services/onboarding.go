package services

import (
	"context"

	"github.com/dmitrijs2005/safesend/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/safesend/internal/common"
)

// OnboardingService remembers whether the user dismissed the welcome text.
type OnboardingService interface {
	ShouldShow(ctx context.Context) (bool, error)
	Hide(ctx context.Context) error
	Reset(ctx context.Context) error
}

type onboardingService struct {
	repo metadata.Repository
}

func NewOnboardingService(repo metadata.Repository) OnboardingService {
	return &onboardingService{repo: repo}
}

func (s *onboardingService) ShouldShow(ctx context.Context) (bool, error) {
	v, err := s.repo.Get(ctx, common.OnboardingHideKey)
	if err != nil {
		return true, err
	}
	return string(v) != "true", nil
}

func (s *onboardingService) Hide(ctx context.Context) error {
	return s.repo.Set(ctx, common.OnboardingHideKey, []byte("true"))
}

func (s *onboardingService) Reset(ctx context.Context) error {
	return s.repo.Delete(ctx, common.OnboardingHideKey)
}
