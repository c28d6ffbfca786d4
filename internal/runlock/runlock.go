// Package runlock serializes runs against one collection across processes
// with an advisory file lock.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"prospector/internal/services"
)

// Lock is a held per-collection lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file for a collection inside dir.
func Path(dir string, collectionID int64) string {
	return filepath.Join(dir, fmt.Sprintf("collection-%d.lock", collectionID))
}

// Acquire takes the lock for collectionID without blocking. When another run
// holds it the error is marked services.ErrCollectionBusy.
func Acquire(dir string, collectionID int64) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "runlock", "acquire", "create lock directory", err)
	}
	path := Path(dir, collectionID)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "runlock", "acquire", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrCollectionBusy, "runlock", "acquire",
			fmt.Sprintf("list %d is being processed by another run", collectionID), nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Release drops the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
