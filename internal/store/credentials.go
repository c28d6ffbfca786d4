package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"prospector/internal/credentials"
	"prospector/internal/services"
)

// StoredCredential is a credential row as listed to operators.
type StoredCredential struct {
	ID        int64
	CreatedAt time.Time
	credentials.Credential
}

// AddCredential stores a new API key. Keys are unique across scopes.
func (s *Store) AddCredential(ctx context.Context, key string, scope credentials.Scope) (StoredCredential, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return StoredCredential{}, services.Wrap(services.ErrValidation, "store", "add credential", "key is empty", nil)
	}
	wire, err := scope.MarshalText()
	if err != nil {
		return StoredCredential{}, services.Wrap(services.ErrValidation, "store", "add credential", "", err)
	}

	created := timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO credentials (api_key, scope, created_at) VALUES (?, ?, ?)`,
		key, string(wire), created,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return StoredCredential{}, services.Wrap(services.ErrValidation, "store", "add credential", "key already stored", nil)
		}
		return StoredCredential{}, persistErr("add credential", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return StoredCredential{}, persistErr("add credential", err)
	}
	createdAt, _ := parseTimeString(created)
	return StoredCredential{
		ID:         id,
		CreatedAt:  createdAt,
		Credential: credentials.Credential{Key: key, Scope: scope},
	}, nil
}

// ListCredentials returns every stored key in insertion order.
func (s *Store) ListCredentials(ctx context.Context) ([]StoredCredential, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, api_key, scope, created_at FROM credentials ORDER BY id`)
	if err != nil {
		return nil, persistErr("list credentials", err)
	}
	defer rows.Close()

	var out []StoredCredential
	for rows.Next() {
		var (
			row     StoredCredential
			scope   string
			created sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.Key, &scope, &created); err != nil {
			return nil, persistErr("scan credential", err)
		}
		parsed, err := credentials.ParseScope(scope)
		if err != nil {
			return nil, services.Wrap(services.ErrPersistence, "store", "list credentials", fmt.Sprintf("credential %d", row.ID), err)
		}
		row.Scope = parsed
		row.CreatedAt = parseTimeOrZero(created)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list credentials", err)
	}
	return out, nil
}

// CredentialsFor returns, in insertion order, the keys usable for purpose:
// those scoped to it and those scoped to both.
func (s *Store) CredentialsFor(ctx context.Context, purpose credentials.Scope) ([]credentials.Credential, error) {
	all, err := s.ListCredentials(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]credentials.Credential, 0, len(all))
	for _, row := range all {
		if row.Scope.Accepts(purpose) {
			out = append(out, row.Credential)
		}
	}
	return out, nil
}
