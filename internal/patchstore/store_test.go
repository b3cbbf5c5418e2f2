package patchstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.db")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("journal file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='backups'",
	).Scan(&name)
	if err != nil {
		t.Errorf("backups table not found after idempotent opens: %v", err)
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.db")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
	}
	for pragma, want := range checks {
		if err := s.verifyPragma(pragma, want); err != nil {
			t.Errorf("pragma check failed: %v", err)
		}
	}
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.db")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, expected %d", version, currentSchemaVersion)
	}
}

func TestUUIDv7Generator_Format(t *testing.T) {
	gen := UUIDv7Generator{}

	id := gen.Generate()
	if len(id) != 36 {
		t.Errorf("Generate() = %q, expected 36-char hyphenated UUID", id)
	}
	if id == gen.Generate() {
		t.Error("consecutive IDs must differ")
	}
}
