package runlock

import (
	"errors"
	"testing"

	"prospector/internal/services"
)

func TestAcquireRejectsSecondHolder(t *testing.T) {
	dir := t.TempDir()
	first, err := Acquire(dir, 7)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := Acquire(dir, 7); !errors.Is(err, services.ErrCollectionBusy) {
		t.Fatalf("expected collection busy, got %v", err)
	}

	other, err := Acquire(dir, 8)
	if err != nil {
		t.Fatalf("other collection should lock independently: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := Acquire(dir, 7)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = again.Release()
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
