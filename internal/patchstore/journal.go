package patchstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// ErrNotTracked is returned by Restore when no backup exists for the
// target path.
var ErrNotTracked = errors.New("patchstore: target not tracked")

// Backup describes one journal entry.
type Backup struct {
	ID        string
	Target    string
	Checksum  string
	Existed   bool
	CreatedAt string
}

// Apply writes content to target, capturing the pristine file in the
// journal first. Only the first Apply for a target records a backup;
// re-applying (same or different content) leaves the journal untouched,
// so Restore always returns the file to its original state.
//
// A target that does not exist yet is journaled as absent and will be
// removed again on Restore.
func (s *Store) Apply(ctx context.Context, target string, content []byte) error {
	original, err := os.ReadFile(target)
	existed := true
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("apply %s: %w", target, err)
		}
		existed = false
		original = []byte{}
	}

	sum := sha256.Sum256(original)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO backups (id, target_path, original, checksum, existed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(target_path) DO NOTHING
	`,
		s.ids.Generate(),
		target,
		original,
		hex.EncodeToString(sum[:]),
		existed,
	)
	if err != nil {
		return fmt.Errorf("apply %s: journal: %w", target, err)
	}

	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("apply %s: %w", target, err)
	}

	return nil
}

// Restore puts target back to its journaled content and drops the
// journal entry. The stored content is checksummed before anything is
// written. Returns ErrNotTracked when target has no backup.
func (s *Store) Restore(ctx context.Context, target string) error {
	var (
		original []byte
		checksum string
		existed  bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT original, checksum, existed FROM backups WHERE target_path = ?
	`, target).Scan(&original, &checksum, &existed)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("restore %s: %w", target, ErrNotTracked)
	}
	if err != nil {
		return fmt.Errorf("restore %s: %w", target, err)
	}

	sum := sha256.Sum256(original)
	if got := hex.EncodeToString(sum[:]); got != checksum {
		return fmt.Errorf("restore %s: backup checksum mismatch (journal has %s, content hashes to %s)",
			target, checksum, got)
	}

	if existed {
		if err := os.WriteFile(target, original, 0o644); err != nil {
			return fmt.Errorf("restore %s: %w", target, err)
		}
	} else {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("restore %s: %w", target, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM backups WHERE target_path = ?`, target); err != nil {
		return fmt.Errorf("restore %s: journal: %w", target, err)
	}

	return nil
}

// RestoreAll restores every journaled target, newest first, and returns
// the restored paths in that order. Restoration stops at the first
// failure so the journal still covers everything not yet restored.
func (s *Store) RestoreAll(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT target_path FROM backups ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("restore all: %w", err)
	}

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			rows.Close()
			return nil, fmt.Errorf("restore all: %w", err)
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("restore all: %w", err)
	}
	rows.Close()

	var restored []string
	for _, target := range targets {
		if err := s.Restore(ctx, target); err != nil {
			return restored, err
		}
		restored = append(restored, target)
	}
	return restored, nil
}

// Backups lists the journal entries in application order.
func (s *Store) Backups(ctx context.Context) ([]Backup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target_path, checksum, existed, created_at
		FROM backups ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.ID, &b.Target, &b.Checksum, &b.Existed, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		backups = append(backups, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	return backups, nil
}
