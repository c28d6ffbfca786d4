package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"prospector/internal/services"
)

// Cursor is the persisted pagination and progress state of a collection.
type Cursor struct {
	NextCursor    string
	FetchedCount  int64
	VerifiedCount int64
}

// Exhausted reports that a previous run consumed the last page: records were
// fetched and the source returned no continuation token.
func (c Cursor) Exhausted() bool {
	return c.FetchedCount > 0 && c.NextCursor == ""
}

// Unverified returns how many stored records still await verification.
func (c Cursor) Unverified() int64 {
	return max(0, c.FetchedCount-c.VerifiedCount)
}

// CursorUpdate carries the fields to overwrite. Nil fields are left as is;
// an empty NextCursor clears the token.
type CursorUpdate struct {
	NextCursor    *string
	FetchedCount  *int64
	VerifiedCount *int64
}

func (u CursorUpdate) empty() bool {
	return u.NextCursor == nil && u.FetchedCount == nil && u.VerifiedCount == nil
}

// LoadCursor reads the progress state of a collection.
func (s *Store) LoadCursor(ctx context.Context, collectionID int64) (Cursor, error) {
	ctx = ensureContext(ctx)
	cur, err := scanCursor(s.db.QueryRowContext(ctx, cursorQuery, collectionID), collectionID)
	if err != nil {
		return Cursor{}, asPersistErr("load cursor", err)
	}
	return cur, nil
}

const cursorQuery = `SELECT next_cursor, fetched_count, verified_count FROM collections WHERE id = ?`

func loadCursorTx(ctx context.Context, tx *sql.Tx, collectionID int64) (Cursor, error) {
	return scanCursor(tx.QueryRowContext(ctx, cursorQuery, collectionID), collectionID)
}

func scanCursor(row *sql.Row, collectionID int64) (Cursor, error) {
	var (
		cur  Cursor
		next sql.NullString
	)
	err := row.Scan(&next, &cur.FetchedCount, &cur.VerifiedCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Cursor{}, services.Wrap(services.ErrNotFound, "store", "load cursor", fmt.Sprintf("list %d", collectionID), nil)
	}
	if err != nil {
		return Cursor{}, err
	}
	cur.NextCursor = next.String
	return cur, nil
}

// CommitCursor overwrites the supplied fields in a single statement. The
// schema rejects a verified count above the fetched count.
func (s *Store) CommitCursor(ctx context.Context, collectionID int64, update CursorUpdate) error {
	ctx = ensureContext(ctx)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return commitCursorTx(ctx, tx, collectionID, update)
	})
	if err != nil {
		return asPersistErr("commit cursor", err)
	}
	return nil
}

func commitCursorTx(ctx context.Context, tx *sql.Tx, collectionID int64, update CursorUpdate) error {
	if update.empty() {
		return nil
	}
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if update.NextCursor != nil {
		sets = append(sets, "next_cursor = ?")
		args = append(args, nullableString(*update.NextCursor))
	}
	if update.FetchedCount != nil {
		sets = append(sets, "fetched_count = ?")
		args = append(args, *update.FetchedCount)
	}
	if update.VerifiedCount != nil {
		sets = append(sets, "verified_count = ?")
		args = append(args, *update.VerifiedCount)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, timestamp(), collectionID)

	res, err := tx.ExecContext(ctx,
		`UPDATE collections SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "store", "commit cursor", fmt.Sprintf("list %d", collectionID), nil)
	}
	return nil
}
