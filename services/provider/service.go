// Package provider exposes the provider directory consumed by the booking
// flow. The booking core only reads from it.
package provider

import (
	"context"
	"fmt"

	providerRepo "lexbook/database/repository/provider"
	"lexbook/models"
)

// DirectoryService is the provider-directory contract:
// search plus point lookup.
type DirectoryService interface {
	Search(ctx context.Context, criteria providerRepo.ProviderSearchCriteria) ([]models.Provider, error)
	GetByID(ctx context.Context, id string) (*models.Provider, error)
}

// DefaultDirectoryService implements DirectoryService over the provider
// repository.
type DefaultDirectoryService struct {
	Repo providerRepo.ProviderRepository
}

func (s *DefaultDirectoryService) Search(ctx context.Context, criteria providerRepo.ProviderSearchCriteria) ([]models.Provider, error) {
	providers, err := s.Repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("directory search failed: %w", err)
	}
	return providers, nil
}

func (s *DefaultDirectoryService) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	provider, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}
	return provider, nil
}
