package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matricare/matricare/pkg/pagination"
)

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `id, full_name, specialization, hospital, years_experience,
	bio, photo_url, is_available, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FullName, &d.Specialization, &d.Hospital, &d.YearsExperience,
		&d.Bio, &d.PhotoURL, &d.IsAvailable, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor (id, full_name, specialization, hospital, years_experience,
			bio, photo_url, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.FullName, d.Specialization, d.Hospital, d.YearsExperience,
		d.Bio, d.PhotoURL, d.IsAvailable)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor SET full_name=$2, specialization=$3, hospital=$4, years_experience=$5,
			bio=$6, photo_url=$7, is_available=$8, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.FullName, d.Specialization, d.Hospital, d.YearsExperience,
		d.Bio, d.PhotoURL, d.IsAvailable)
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	return err
}

// List pages the directory with a keyset filter: rows strictly after the
// cursor in (created_at DESC, id DESC) order. The tuple comparison matches
// created_at < c OR (created_at = c AND id < c.id).
func (r *doctorRepoPG) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]*Doctor, error) {
	var conds []string
	var args []interface{}

	if filter.Specialization != "" {
		args = append(args, filter.Specialization)
		conds = append(conds, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + doctorCols + ` FROM doctor`
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

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
