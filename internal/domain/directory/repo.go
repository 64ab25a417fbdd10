package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

// ListFilter narrows a directory listing.
type ListFilter struct {
	Specialization string
}

// DoctorRepository is the storage contract for the doctor directory.
// List returns up to limit+1 rows in (created_at DESC, id DESC) order so the
// caller can detect whether another page exists.
type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]*Doctor, error)
}
