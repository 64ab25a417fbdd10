package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	MerchantID *uuid.UUID
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	Trimester *int
}

// List methods return up to limit+1 rows in (created_at DESC, id DESC) order
// so the caller can detect whether another page exists.

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter, limit int, cursor *pagination.Cursor) ([]*Product, error)
}

type RecipeRepository interface {
	Create(ctx context.Context, r *Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
	Update(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter RecipeFilter, limit int, cursor *pagination.Cursor) ([]*Recipe, error)
}
