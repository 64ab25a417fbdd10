package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matricare/matricare/pkg/pagination"
)

type productRepoPG struct{ pool *pgxpool.Pool }

func NewProductRepoPG(pool *pgxpool.Pool) ProductRepository {
	return &productRepoPG{pool: pool}
}

const productCols = `id, merchant_id, name, description, price_cents, currency,
	image_url, in_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.MerchantID, &p.Name, &p.Description, &p.PriceCents, &p.Currency,
		&p.ImageURL, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *productRepoPG) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO product (id, merchant_id, name, description, price_cents, currency,
			image_url, in_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.MerchantID, p.Name, p.Description, p.PriceCents, p.Currency,
		p.ImageURL, p.InStock)
	return err
}

func (r *productRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productCols+` FROM product WHERE id = $1`, id))
}

func (r *productRepoPG) Update(ctx context.Context, p *Product) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE product SET name=$2, description=$3, price_cents=$4, currency=$5,
			image_url=$6, in_stock=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Currency, p.ImageURL, p.InStock)
	return err
}

func (r *productRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	return err
}

func (r *productRepoPG) List(ctx context.Context, filter ProductFilter, limit int, cursor *pagination.Cursor) ([]*Product, error) {
	var conds []string
	var args []interface{}

	if filter.MerchantID != nil {
		args = append(args, *filter.MerchantID)
		conds = append(conds, fmt.Sprintf("merchant_id = $%d", len(args)))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + productCols + ` FROM product`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

type recipeRepoPG struct{ pool *pgxpool.Pool }

func NewRecipeRepoPG(pool *pgxpool.Pool) RecipeRepository {
	return &recipeRepoPG{pool: pool}
}

const recipeCols = `id, title, description, ingredients, instructions, trimester,
	calories, image_url, created_at, updated_at`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rec Recipe
	err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Ingredients, &rec.Instructions,
		&rec.Trimester, &rec.Calories, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *recipeRepoPG) Create(ctx context.Context, rec *Recipe) error {
	rec.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recipe (id, title, description, ingredients, instructions, trimester,
			calories, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.Title, rec.Description, rec.Ingredients, rec.Instructions, rec.Trimester,
		rec.Calories, rec.ImageURL)
	return err
}

func (r *recipeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	return scanRecipe(r.pool.QueryRow(ctx, `SELECT `+recipeCols+` FROM recipe WHERE id = $1`, id))
}

func (r *recipeRepoPG) Update(ctx context.Context, rec *Recipe) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE recipe SET title=$2, description=$3, ingredients=$4, instructions=$5,
			trimester=$6, calories=$7, image_url=$8, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Title, rec.Description, rec.Ingredients, rec.Instructions,
		rec.Trimester, rec.Calories, rec.ImageURL)
	return err
}

func (r *recipeRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM recipe WHERE id = $1`, id)
	return err
}

func (r *recipeRepoPG) List(ctx context.Context, filter RecipeFilter, limit int, cursor *pagination.Cursor) ([]*Recipe, error) {
	var conds []string
	var args []interface{}

	if filter.Trimester != nil {
		args = append(args, *filter.Trimester)
		conds = append(conds, fmt.Sprintf("trimester = $%d", len(args)))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + recipeCols + ` FROM recipe`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
