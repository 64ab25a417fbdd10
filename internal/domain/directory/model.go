// Package directory implements the volunteer-doctor directory: a read-mostly
// listing surface paged with keyset cursors plus admin maintenance endpoints.
package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

// Doctor maps to the doctor table. ID and CreatedAt are immutable once
// assigned; issued cursors rely on that.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Hospital        string    `db:"hospital" json:"hospital"`
	YearsExperience int       `db:"years_experience" json:"years_experience"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	PhotoURL        *string   `db:"photo_url" json:"photo_url,omitempty"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CursorKey anchors keyset pagination on (created_at, id).
func (d *Doctor) CursorKey() pagination.Cursor {
	return pagination.Cursor{CreatedAt: d.CreatedAt, ID: d.ID.String()}
}
