package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"prospector/internal/filter"
	"prospector/internal/services"
)

// Collection is a named lead list with its search filter and progress state.
type Collection struct {
	ID        int64
	Name      string
	Filter    filter.Spec
	CreatedAt time.Time
	UpdatedAt time.Time
	Cursor
}

const collectionColumns = `c.id, c.name, c.fetched_count, c.verified_count, c.next_cursor, c.created_at, c.updated_at,
    f.person_title, f.location, f.industry, f.keywords, f.employee_size`

const collectionFrom = `FROM collections c JOIN filters f ON f.id = c.filter_id`

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*Collection, error) {
	var (
		c          Collection
		nextCursor sql.NullString
		created    sql.NullString
		updated    sql.NullString
		keywords   sql.NullString
		sizes      string
	)
	if err := scanner.Scan(
		&c.ID, &c.Name, &c.FetchedCount, &c.VerifiedCount, &nextCursor, &created, &updated,
		&c.Filter.PersonTitle, &c.Filter.Location, &c.Filter.Industry, &keywords, &sizes,
	); err != nil {
		return nil, err
	}
	parsed, err := filter.ParseSizes(sizes)
	if err != nil {
		return nil, fmt.Errorf("collection %d: %w", c.ID, err)
	}
	c.Filter.Sizes = parsed
	c.Filter.Keywords = keywords.String
	c.NextCursor = nextCursor.String
	c.CreatedAt = parseTimeOrZero(created)
	c.UpdatedAt = parseTimeOrZero(updated)
	return &c, nil
}

// CreateCollection stores the filter and a new collection referencing it with
// all counters at zero. Duplicate names are rejected.
func (s *Store) CreateCollection(ctx context.Context, name string, spec filter.Spec) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create collection", "name is empty", nil)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx = ensureContext(ctx)
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO filters (person_title, location, industry, keywords, employee_size) VALUES (?, ?, ?, ?, ?)`,
			strings.TrimSpace(spec.PersonTitle),
			strings.TrimSpace(spec.Location),
			strings.TrimSpace(spec.Industry),
			nullableString(strings.TrimSpace(spec.Keywords)),
			spec.StorageSizes(),
		)
		if err != nil {
			return err
		}
		filterID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		now := timestamp()
		res, err = tx.ExecContext(ctx,
			`INSERT INTO collections (name, filter_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			name, filterID, now, now,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrValidation, "store", "create collection", fmt.Sprintf("list %q already exists", name), nil)
		}
		return nil, persistErr("create collection", err)
	}
	return s.CollectionByID(ctx, id)
}

// ListCollections returns every collection ordered by id.
func (s *Store) ListCollections(ctx context.Context) ([]*Collection, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+collectionColumns+` `+collectionFrom+` ORDER BY c.id`)
	if err != nil {
		return nil, persistErr("list collections", err)
	}
	defer rows.Close()

	var out []*Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, persistErr("scan collection", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list collections", err)
	}
	return out, nil
}

// CollectionByID fetches a single collection. Missing ids yield ErrNotFound.
func (s *Store) CollectionByID(ctx context.Context, id int64) (*Collection, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+collectionColumns+` `+collectionFrom+` WHERE c.id = ?`, id)
	return s.collectionFromRow(row, fmt.Sprintf("list %d", id))
}

// CollectionByName fetches a collection by its unique name.
func (s *Store) CollectionByName(ctx context.Context, name string) (*Collection, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+collectionColumns+` `+collectionFrom+` WHERE c.name = ?`, strings.TrimSpace(name))
	return s.collectionFromRow(row, fmt.Sprintf("list %q", name))
}

func (s *Store) collectionFromRow(row *sql.Row, label string) (*Collection, error) {
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get collection", label, nil)
	}
	if err != nil {
		return nil, persistErr("get collection", err)
	}
	return c, nil
}
