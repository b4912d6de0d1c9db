// Package catalog persists the rotation history of a Router's log
// files in SQLite, so retention decisions don't require re-reading
// every rotated file's header from disk.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const currentSchemaVersion = 1

// Store tracks every file a Router has rotated to, in creation order,
// so Router.applyRetention can ask for the oldest N beyond a retained
// count without touching the filesystem.
type Store struct {
	db *sql.DB

	insertStmt *sql.Stmt
	forgetStmt *sql.Stmt
}

// Open opens (creating if necessary) the SQLite database at path, with
// the same WAL/busy-timeout/synchronous pragmas the teacher's audit
// backend uses: logging workloads are write-heavy and tolerate losing
// at most the last fraction of a second on a crash.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf(
		"%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_cache_size=1000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	const createSchemaInfo = `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER PRIMARY KEY,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(createSchemaInfo); err != nil {
		return fmt.Errorf("failed to create schema_info table: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_info ORDER BY version DESC LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version < 1 {
		const createRotations = `
		CREATE TABLE IF NOT EXISTS rotations (
			path TEXT PRIMARY KEY,
			seq_no INTEGER NOT NULL,
			rotated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rotations_rotated_at ON rotations(rotated_at);`
		if _, err := s.db.Exec(createRotations); err != nil {
			return fmt.Errorf("failed to create rotations table: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_info (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

func (s *Store) prepareStatements() error {
	insert, err := s.db.Prepare(`
		INSERT INTO rotations (path, seq_no, rotated_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET seq_no = excluded.seq_no`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	s.insertStmt = insert

	forget, err := s.db.Prepare("DELETE FROM rotations WHERE path = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	s.forgetStmt = forget

	return nil
}

// RecordRotation registers path as a file the Router has just opened,
// starting at seqNo.
func (s *Store) RecordRotation(path string, seqNo uint64) error {
	_, err := s.insertStmt.Exec(path, seqNo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record rotation: %w", err)
	}
	return nil
}

// OldestBeyond returns the paths of every tracked file beyond the
// `keep` most recently rotated ones, oldest first: exactly the set a
// retention pass should remove.
func (s *Store) OldestBeyond(keep int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT path FROM rotations
		ORDER BY rotated_at ASC
		LIMIT MAX(0, (SELECT COUNT(*) FROM rotations) - ?)`, keep)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale rotations: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan rotation row: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Forget removes path from the catalog once its file has been deleted.
func (s *Store) Forget(path string) error {
	_, err := s.forgetStmt.Exec(path)
	if err != nil {
		return fmt.Errorf("failed to forget rotation: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
