package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

type Service struct {
	products ProductRepository
	recipes  RecipeRepository
}

func NewService(products ProductRepository, recipes RecipeRepository) *Service {
	return &Service{products: products, recipes: recipes}
}

func validateProduct(p *Product) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.MerchantID == uuid.Nil {
		return fmt.Errorf("merchant_id is required")
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("price_cents must not be negative")
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code")
	}
	return nil
}

func validateRecipe(r *Recipe) error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("ingredients must not be empty")
	}
	if len(r.Instructions) == 0 {
		return fmt.Errorf("instructions must not be empty")
	}
	if r.Trimester != nil && (*r.Trimester < 1 || *r.Trimester > 3) {
		return fmt.Errorf("trimester must be between 1 and 3")
	}
	if r.Calories != nil && *r.Calories < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.products.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter, pg pagination.Params) (*pagination.Response, error) {
	items, err := s.products.List(ctx, filter, pg.Limit, pg.Cursor)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(items, pg.Limit), nil
}

func (s *Service) CreateRecipe(ctx context.Context, r *Recipe) error {
	if err := validateRecipe(r); err != nil {
		return err
	}
	return s.recipes.Create(ctx, r)
}

func (s *Service) GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

func (s *Service) UpdateRecipe(ctx context.Context, r *Recipe) error {
	if err := validateRecipe(r); err != nil {
		return err
	}
	return s.recipes.Update(ctx, r)
}

func (s *Service) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.recipes.Delete(ctx, id)
}

func (s *Service) ListRecipes(ctx context.Context, filter RecipeFilter, pg pagination.Params) (*pagination.Response, error) {
	items, err := s.recipes.List(ctx, filter, pg.Limit, pg.Cursor)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(items, pg.Limit), nil
}
