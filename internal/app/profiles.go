package app

import (
	"fmt"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/infra/repos/profiles"
)

func (s *RunService) ListProfiles() ([]*domain.Profile, error) {
	if s.profileRepo == nil {
		return []*domain.Profile{}, nil
	}
	return s.profileRepo.List()
}

func (s *RunService) GetProfile(id string) (*domain.Profile, error) {
	if s.profileRepo == nil {
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, id)
	}
	return s.profileRepo.Get(id)
}

func (s *RunService) ValidateProfile(p *domain.Profile) error {
	return s.validator.ValidateProfile(p)
}

// ValidateProfileFile loads a profile by path and validates it.
func (s *RunService) ValidateProfileFile(path string) (*domain.Profile, error) {
	if s.profileRepo == nil {
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, path)
	}
	p, err := s.profileRepo.GetByPath(path)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateProfile(p); err != nil {
		return p, err
	}
	return p, nil
}
