package repository

import (
	"context"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// Repository defines the data access contract shared by every entity type.
// Handlers are written once against this interface and the persistence
// adapter decides how a Filter is evaluated.
//
// The tracked flag marks whether the caller intends to mutate what it reads.
// Untracked reads may be served from a detached snapshot; tracked reads always
// reach the store.
type Repository[T domain.Entity[T]] interface {
	// GetAll retrieves every entity ordered by ID
	GetAll(ctx context.Context, tracked bool) ([]T, error)

	// Find retrieves every entity matching the filter ordered by ID
	Find(ctx context.Context, filter Filter, tracked bool) ([]T, error)

	// Get retrieves the first entity matching the filter
	// Returns ErrNotFound if nothing matches
	Get(ctx context.Context, filter Filter, tracked bool) (T, error)

	// Exists reports whether at least one entity matches the filter
	Exists(ctx context.Context, filter Filter, tracked bool) (bool, error)

	// Create inserts the entity and returns it with its generated ID
	Create(ctx context.Context, entity T) (T, error)

	// Update replaces every column of the entity with the same ID
	// Returns ErrNotFound if no row has that ID
	Update(ctx context.Context, entity T) (T, error)

	// Delete removes the entity with the same ID
	// Returns ErrNotFound if no row has that ID
	Delete(ctx context.Context, entity T) error
}

// ByID is shorthand for the filter matching a single primary key.
func ByID(id int64) Filter {
	return Where(Eq("id", id))
}
