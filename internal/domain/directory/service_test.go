package directory

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/matricare/pkg/pagination"
)

// mockDoctorRepo reproduces the keyset contract in memory: rows sorted by
// (created_at DESC, id DESC), limit+1 returned.
type mockDoctorRepo struct {
	records map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{records: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = d.CreatedAt
	m.records[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	m.records[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]*Doctor, error) {
	var all []*Doctor
	for _, d := range m.records {
		if filter.Specialization != "" && d.Specialization != filter.Specialization {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	var out []*Doctor
	for _, d := range all {
		if cursor != nil {
			after := d.CreatedAt.Before(cursor.CreatedAt) ||
				(d.CreatedAt.Equal(cursor.CreatedAt) && d.ID.String() < cursor.ID)
			if !after {
				continue
			}
		}
		out = append(out, d)
		if len(out) == limit+1 {
			break
		}
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockDoctorRepo())
}

func seedDoctors(t *testing.T, svc *Service, n int) {
	t.Helper()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := &Doctor{
			FullName:       fmt.Sprintf("Dr. %c", 'A'+i),
			Specialization: "obgyn",
			Hospital:       "General",
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			IsAvailable:    true,
		}
		if err := svc.CreateDoctor(context.Background(), d); err != nil {
			t.Fatalf("seed doctor: %v", err)
		}
	}
}

func TestCreateDoctor_Validation(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateDoctor(context.Background(), &Doctor{Specialization: "obgyn"}); err == nil {
		t.Error("expected error for missing full_name")
	}
	if err := svc.CreateDoctor(context.Background(), &Doctor{FullName: "Dr. X"}); err == nil {
		t.Error("expected error for missing specialization")
	}
	if err := svc.CreateDoctor(context.Background(), &Doctor{FullName: "Dr. X", Specialization: "obgyn", YearsExperience: -1}); err == nil {
		t.Error("expected error for negative years_experience")
	}
}

// Six rows, limit five: first page has five rows and a cursor, the second
// page has the remaining row and terminates.
func TestListDoctors_CursorPagination(t *testing.T) {
	svc := newTestService()
	seedDoctors(t, svc, 6)

	first, err := svc.ListDoctors(context.Background(), ListFilter{}, pagination.Params{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.HasMore || first.NextCursor == nil {
		t.Fatalf("expected a continuation on the first page: %+v", first)
	}
	page1 := first.Data.([]*Doctor)
	if len(page1) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(page1))
	}

	cur, err := pagination.DecodeCursor(*first.NextCursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListDoctors(context.Background(), ListFilter{}, pagination.Params{Limit: 5, Cursor: cur})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.HasMore || second.NextCursor != nil {
		t.Errorf("expected final page, got %+v", second)
	}
	page2 := second.Data.([]*Doctor)
	if len(page2) != 1 {
		t.Fatalf("expected 1 row on the final page, got %d", len(page2))
	}

	// No row is duplicated or dropped across the two pages.
	seen := make(map[uuid.UUID]bool)
	for _, d := range append(page1, page2...) {
		if seen[d.ID] {
			t.Errorf("doctor %s returned twice", d.ID)
		}
		seen[d.ID] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected all 6 doctors across both pages, got %d", len(seen))
	}
}

// Inserts at the head of the ordering must not shift an already-issued cursor.
func TestListDoctors_StableUnderHeadInsert(t *testing.T) {
	svc := newTestService()
	seedDoctors(t, svc, 4)

	first, err := svc.ListDoctors(context.Background(), ListFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page1 := first.Data.([]*Doctor)

	// A newer row arrives after the first page was served.
	newest := &Doctor{
		FullName: "Dr. New", Specialization: "obgyn", Hospital: "General",
		CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.CreateDoctor(context.Background(), newest); err != nil {
		t.Fatal(err)
	}

	cur, _ := pagination.DecodeCursor(*first.NextCursor)
	second, err := svc.ListDoctors(context.Background(), ListFilter{}, pagination.Params{Limit: 2, Cursor: cur})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range second.Data.([]*Doctor) {
		if d.ID == newest.ID {
			t.Error("head insert must not appear in a continuation page")
		}
		for _, p := range page1 {
			if d.ID == p.ID {
				t.Error("continuation page repeated a row from the first page")
			}
		}
	}
}

func TestListDoctors_SpecializationFilter(t *testing.T) {
	svc := newTestService()
	seedDoctors(t, svc, 3)
	nutritionist := &Doctor{FullName: "Dr. N", Specialization: "nutrition", Hospital: "General", CreatedAt: time.Now()}
	if err := svc.CreateDoctor(context.Background(), nutritionist); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ListDoctors(context.Background(), ListFilter{Specialization: "nutrition"}, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := resp.Data.([]*Doctor)
	if len(rows) != 1 || rows[0].Specialization != "nutrition" {
		t.Errorf("expected only the nutritionist, got %d rows", len(rows))
	}
}
