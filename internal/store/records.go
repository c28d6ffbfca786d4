package store

import (
	"context"
	"database/sql"
	"fmt"

	"prospector/internal/services"
)

// Record is one stored lead. Email is the only field written after insert.
type Record struct {
	ID                   int64  `json:"id"`
	CollectionID         int64  `json:"collection_id"`
	ExternalID           string `json:"external_id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	FullName             string `json:"full_name"`
	Title                string `json:"title"`
	LinkedInURL          string `json:"linkedin_url,omitempty"`
	City                 string `json:"city,omitempty"`
	State                string `json:"state,omitempty"`
	Country              string `json:"country,omitempty"`
	OrganizationName     string `json:"organization_name,omitempty"`
	OrganizationWebsite  string `json:"organization_website,omitempty"`
	OrganizationFacebook string `json:"organization_facebook,omitempty"`
	OrganizationLinkedIn string `json:"organization_linkedin,omitempty"`
	Email                string `json:"email,omitempty"`
}

const recordColumns = `id, collection_id, external_id, first_name, last_name, full_name, title,
    linkedin_url, city, state, country, organization_name, organization_website,
    organization_facebook, organization_linkedin, email`

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		r                                          Record
		linkedin, city, state, country             sql.NullString
		orgName, orgSite, orgFacebook, orgLinkedIn sql.NullString
		email                                      sql.NullString
	)
	if err := scanner.Scan(
		&r.ID, &r.CollectionID, &r.ExternalID, &r.FirstName, &r.LastName, &r.FullName, &r.Title,
		&linkedin, &city, &state, &country, &orgName, &orgSite, &orgFacebook, &orgLinkedIn, &email,
	); err != nil {
		return Record{}, err
	}
	r.LinkedInURL = linkedin.String
	r.City = city.String
	r.State = state.String
	r.Country = country.String
	r.OrganizationName = orgName.String
	r.OrganizationWebsite = orgSite.String
	r.OrganizationFacebook = orgFacebook.String
	r.OrganizationLinkedIn = orgLinkedIn.String
	r.Email = email.String
	return r, nil
}

// PageResult reports what a persisted page contributed and the cursor state
// committed with it.
type PageResult struct {
	Inserted int
	Skipped  int
	Cursor   Cursor
}

// SavePage stamps every record with the collection id, inserts those whose
// external id is new to the collection, stores nextCursor, and advances
// fetched_count by the number inserted, all in one transaction. Records the
// collection already holds are skipped and counted.
func (s *Store) SavePage(ctx context.Context, collectionID int64, records []Record, nextCursor string) (PageResult, error) {
	ctx = ensureContext(ctx)
	var result PageResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result = PageResult{}
		inserted, err := insertRecordsTx(ctx, tx, collectionID, records)
		if err != nil {
			return err
		}
		cur, err := loadCursorTx(ctx, tx, collectionID)
		if err != nil {
			return err
		}
		cur.NextCursor = nextCursor
		cur.FetchedCount += int64(inserted)
		if err := commitCursorTx(ctx, tx, collectionID, CursorUpdate{
			NextCursor:   &cur.NextCursor,
			FetchedCount: &cur.FetchedCount,
		}); err != nil {
			return err
		}
		result = PageResult{Inserted: inserted, Skipped: len(records) - inserted, Cursor: cur}
		return nil
	})
	if err != nil {
		return PageResult{}, asPersistErr("save page", err)
	}
	return result, nil
}

func insertRecordsTx(ctx context.Context, tx *sql.Tx, collectionID int64, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (
            collection_id, external_id, first_name, last_name, full_name, title,
            linkedin_url, city, state, country, organization_name, organization_website,
            organization_facebook, organization_linkedin, email, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (collection_id, external_id) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	created := timestamp()
	inserted := 0
	for _, r := range records {
		if r.ExternalID == "" {
			return 0, services.Wrap(services.ErrValidation, "store", "insert record", "record without external id", nil)
		}
		res, err := stmt.ExecContext(ctx,
			collectionID, r.ExternalID, r.FirstName, r.LastName, r.FullName, r.Title,
			nullableString(r.LinkedInURL), nullableString(r.City), nullableString(r.State), nullableString(r.Country),
			nullableString(r.OrganizationName), nullableString(r.OrganizationWebsite),
			nullableString(r.OrganizationFacebook), nullableString(r.OrganizationLinkedIn),
			nullableString(r.Email), created,
		)
		if err != nil {
			return 0, fmt.Errorf("insert record %s: %w", r.ExternalID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// RecordVerification stores the confirmed email (when non-empty) and advances
// verified_count by one in a single transaction.
func (s *Store) RecordVerification(ctx context.Context, collectionID, recordID int64, email string) error {
	ctx = ensureContext(ctx)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if email != "" {
			res, err := tx.ExecContext(ctx,
				`UPDATE records SET email = ? WHERE id = ? AND collection_id = ?`, email, recordID, collectionID)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return services.Wrap(services.ErrNotFound, "store", "record verification", fmt.Sprintf("record %d", recordID), nil)
			}
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE collections SET verified_count = verified_count + 1, updated_at = ? WHERE id = ?`,
			timestamp(), collectionID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return services.Wrap(services.ErrNotFound, "store", "record verification", fmt.Sprintf("list %d", collectionID), nil)
		}
		return nil
	})
	if err != nil {
		return asPersistErr("record verification", err)
	}
	return nil
}

// asPersistErr marks raw driver errors as persistence failures while leaving
// already classified errors untouched.
func asPersistErr(operation string, err error) error {
	if services.Label(err) != "error" {
		return err
	}
	return persistErr(operation, err)
}
