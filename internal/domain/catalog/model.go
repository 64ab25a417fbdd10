package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

// Product is a marketplace item sold by a merchant.
type Product struct {
	ID          uuid.UUID `db:"id" json:"id"`
	MerchantID  uuid.UUID `db:"merchant_id" json:"merchant_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Currency    string    `db:"currency" json:"currency"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	InStock     bool      `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Product) CursorKey() pagination.Cursor {
	return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID.String()}
}

// Recipe is a nutrition recipe, optionally targeted at a trimester (1-3).
type Recipe struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Ingredients  []string  `db:"ingredients" json:"ingredients"`
	Instructions []string  `db:"instructions" json:"instructions"`
	Trimester    *int      `db:"trimester" json:"trimester,omitempty"`
	Calories     *int      `db:"calories" json:"calories,omitempty"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Recipe) CursorKey() pagination.Cursor {
	return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID.String()}
}
