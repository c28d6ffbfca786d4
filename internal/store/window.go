package store

import (
	"context"

	"prospector/internal/services"
)

// Window selects a slice of stored records by position.
type Window struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// WindowPage is the result of a windowed read.
type WindowPage struct {
	Items     []Record `json:"items"`
	Total     int      `json:"total"`
	Remaining int      `json:"remaining"`
	Next      *Window  `json:"next,omitempty"`
}

// ReadWindow returns the records at [offset, offset+limit) in insertion
// order, together with how many records follow the window.
func (s *Store) ReadWindow(ctx context.Context, collectionID int64, w Window) (WindowPage, error) {
	if w.Limit <= 0 || w.Offset < 0 {
		return WindowPage{}, services.Wrap(services.ErrValidation, "store", "read window", "limit must be positive and offset non-negative", nil)
	}
	ctx = ensureContext(ctx)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE collection_id = ?`, collectionID,
	).Scan(&total); err != nil {
		return WindowPage{}, persistErr("count records", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE collection_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		collectionID, w.Limit, w.Offset)
	if err != nil {
		return WindowPage{}, persistErr("read window", err)
	}
	defer rows.Close()

	page := WindowPage{Total: total}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return WindowPage{}, persistErr("scan record", err)
		}
		page.Items = append(page.Items, r)
	}
	if err := rows.Err(); err != nil {
		return WindowPage{}, persistErr("read window", err)
	}

	page.Remaining = max(0, total-(w.Offset+len(page.Items)))
	if page.Remaining > 0 {
		page.Next = &Window{Limit: w.Limit, Offset: w.Offset + len(page.Items)}
	}
	return page, nil
}
