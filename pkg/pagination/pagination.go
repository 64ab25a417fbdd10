// Package pagination implements the cursor-based listing contract shared by
// the directory and catalog endpoints. Results are ordered by created_at
// descending with id as tie-breaker, and the continuation point is encoded
// as an opaque cursor instead of an offset so pages stay stable under
// concurrent inserts at the head of the ordering.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor marks the last row of a previously returned page. Rows strictly
// after it in (created_at DESC, id DESC) order belong to the next page.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// Encode serializes the cursor as base64-wrapped JSON.
func (c Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(b)
}

// DecodeCursor parses an encoded cursor. An empty string yields a nil cursor
// (first page). Malformed input is rejected before any query runs.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if c.CreatedAt.IsZero() || c.ID == "" {
		return nil, fmt.Errorf("cursor missing created_at or id")
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &c, nil
}

// Params holds the pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Cursor *Cursor
}

// FromContext extracts pagination parameters from the echo context.
// The limit is clamped to [1, MaxLimit] and defaults to DefaultLimit.
func FromContext(c echo.Context) (Params, error) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cur, err := DecodeCursor(c.QueryParam("cursor"))
	if err != nil {
		return Params{}, err
	}
	return Params{Limit: limit, Cursor: cur}, nil
}

// Response wraps a cursor-paginated API response. NextCursor is nil on the
// final page.
type Response struct {
	Data       interface{} `json:"data"`
	Limit      int         `json:"limit"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
}

// Keyed is implemented by rows that can anchor a cursor.
type Keyed interface {
	CursorKey() Cursor
}

// NewResponse assembles a response from a page of rows. Callers fetch
// limit+1 rows; the extra row only signals has_more and is trimmed here.
// The next cursor is derived from the last row actually returned.
func NewResponse[T Keyed](rows []T, limit int) *Response {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	resp := &Response{
		Data:    rows,
		Limit:   limit,
		HasMore: hasMore,
	}
	if hasMore && len(rows) > 0 {
		enc := rows[len(rows)-1].CursorKey().Encode()
		resp.NextCursor = &enc
	}
	return resp
}
