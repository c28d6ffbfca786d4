package credentials

import (
	"errors"
	"strings"
)

var (
	ErrNoCredentials = errors.New("no credentials available")
	ErrPoolExhausted = errors.New("all credentials have reached their limit")
)

// Credential is an immutable API key tagged with its purpose.
type Credential struct {
	Key   string `json:"key"`
	Scope Scope  `json:"scope"`
}

// Masked returns the key with all but the last four characters hidden.
func (c Credential) Masked() string {
	key := strings.TrimSpace(c.Key)
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// Pool holds the credentials usable for one purpose and the active index.
// It is not safe for concurrent use; each run owns its pool.
type Pool struct {
	purpose Scope
	keys    []Credential
	active  int
}

// NewPool keeps the credentials that accept purpose, in the order given.
func NewPool(purpose Scope, all []Credential) *Pool {
	keys := make([]Credential, 0, len(all))
	for _, cred := range all {
		if cred.Scope.Accepts(purpose) {
			keys = append(keys, cred)
		}
	}
	return &Pool{purpose: purpose, keys: keys}
}

// Purpose returns the purpose the pool was built for.
func (p *Pool) Purpose() Scope {
	return p.purpose
}

// Len returns the number of usable credentials.
func (p *Pool) Len() int {
	return len(p.keys)
}

// Index returns the active position.
func (p *Pool) Index() int {
	return p.active
}

// Get returns the active credential without side effects.
func (p *Pool) Get() (Credential, error) {
	if len(p.keys) == 0 {
		return Credential{}, ErrNoCredentials
	}
	return p.keys[p.active], nil
}

// Rotate advances to the next credential. Advancement is permanent for the
// life of the pool; at the last index it fails with ErrPoolExhausted.
func (p *Pool) Rotate() (Credential, error) {
	if len(p.keys) == 0 {
		return Credential{}, ErrNoCredentials
	}
	if p.active >= len(p.keys)-1 {
		return Credential{}, ErrPoolExhausted
	}
	p.active++
	return p.keys[p.active], nil
}
