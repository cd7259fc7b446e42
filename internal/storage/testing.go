package storage

import (
	"path/filepath"
	"testing"
)

// OpenTest opens a migrated database in a per-test temporary directory and
// registers cleanup. Intended for use from _test.go files in this module.
func OpenTest(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tracker_test.db")
	db, err := Open(DefaultConfig(path))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// NewTestService returns an initialized Service over a test database. The
// sample seed decks are present after this call.
func NewTestService(t *testing.T) *Service {
	t.Helper()

	svc := NewService(OpenTest(t))
	if err := svc.Initialize(t.Context()); err != nil {
		t.Fatalf("failed to initialize test service: %v", err)
	}
	return svc
}
