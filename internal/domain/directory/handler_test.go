package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc := newTestService()
	return NewHandler(svc), svc
}

func TestListDoctors_Handler(t *testing.T) {
	h, svc := newTestHandler(t)
	seedDoctors(t, svc, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data       []Doctor `json:"data"`
		Limit      int      `json:"limit"`
		HasMore    bool     `json:"has_more"`
		NextCursor *string  `json:"next_cursor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 2 || !body.HasMore || body.NextCursor == nil {
		t.Errorf("expected a full first page with continuation, got %+v", body)
	}
}

func TestListDoctors_Handler_BadCursor(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?cursor=%21%21not-base64", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListDoctors(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed cursor, got %v", err)
	}
}

func TestGetDoctor_Handler(t *testing.T) {
	h, svc := newTestHandler(t)
	d := &Doctor{FullName: "Dr. A", Specialization: "obgyn", Hospital: "General", CreatedAt: time.Now()}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.GetDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != d.ID || got.FullName != "Dr. A" {
		t.Errorf("unexpected doctor: %+v", got)
	}
}

func TestGetDoctor_Handler_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.GetDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCreateDoctor_Handler(t *testing.T) {
	h, _ := newTestHandler(t)

	payload := `{"full_name":"Dr. B","specialization":"obgyn","hospital":"City","years_experience":9}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
}

func TestCreateDoctor_Handler_MissingName(t *testing.T) {
	h, _ := newTestHandler(t)

	payload := `{"specialization":"obgyn"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestDeleteDoctor_Handler(t *testing.T) {
	h, svc := newTestHandler(t)
	d := &Doctor{FullName: "Dr. C", Specialization: "obgyn", Hospital: "General", CreatedAt: time.Now()}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.DeleteDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, err := svc.GetDoctor(context.Background(), d.ID); err == nil {
		t.Error("expected doctor to be gone")
	}
}
