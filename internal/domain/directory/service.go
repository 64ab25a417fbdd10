package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

type Service struct {
	doctors DoctorRepository
}

func NewService(doctors DoctorRepository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if d.YearsExperience < 0 {
		return fmt.Errorf("years_experience must not be negative")
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.YearsExperience < 0 {
		return fmt.Errorf("years_experience must not be negative")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

// ListDoctors returns one page of the directory plus a continuation cursor
// when more rows exist.
func (s *Service) ListDoctors(ctx context.Context, filter ListFilter, pg pagination.Params) (*pagination.Response, error) {
	items, err := s.doctors.List(ctx, filter, pg.Limit, pg.Cursor)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(items, pg.Limit), nil
}
