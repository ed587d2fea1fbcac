// File: database/repository/provider/interface.go
package providerRepo

import (
	"context"
	"errors"
	"fmt"

	"lexbook/database"
	"lexbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no provider matches the given identifier.
var ErrNotFound = errors.New("provider not found")

// ProviderSearchCriteria defines criteria for a provider directory search.
type ProviderSearchCriteria struct {
	Query          string  // free-text match against display name
	Specialization string  // e.g., "property", "family", "corporate"
	Mode           string  // required consultation mode, if any
	MinRating      float64
	VerifiedOnly   bool
}

// ProviderRepository defines methods for provider directory access. The
// booking core reads providers, it never mutates them.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
	Search(ctx context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error)
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a new MongoDB ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	repo := &mongoProviderRepo{
		coll: database.DB().Collection("providers"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create provider indexes: %v\n", err)
	}
	return repo
}
