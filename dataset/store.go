package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records(
	id TEXT PRIMARY KEY,
	split TEXT NOT NULL,
	repo TEXT NOT NULL,
	path TEXT NOT NULL,
	method TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	code_tokens TEXT NOT NULL,
	record TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS records_split ON records(split);
`

var ErrRecordNotFound = errors.New("record not found")

// Store keeps records in a SQLite database.
type Store struct {
	db *sql.DB
}

func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Insert adds records in one transaction. Records whose id is already
// stored are left untouched.
func (s *Store) Insert(ctx context.Context, recs ...Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO records(id, split, repo, path, method, start_line, code_tokens, record)
		VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range recs {
		tokens, err := json.Marshal(rec.CodeTokens)
		if err != nil {
			return err
		}
		full, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Split, rec.Repo.Name, rec.File.Path,
			rec.Method.Name, rec.Method.StartLine, string(tokens), string(full)); err != nil {
			return fmt.Errorf("insert %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Sequences returns the code tokens of all records in split in insertion
// order. An empty split selects every record.
func (s *Store) Sequences(ctx context.Context, split string) ([][]string, error) {
	query := "SELECT code_tokens FROM records ORDER BY rowid"
	args := []any{}
	if split != "" {
		query = "SELECT code_tokens FROM records WHERE split = ? ORDER BY rowid"
		args = append(args, split)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seqs [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tokens []string
		if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
			log.Warningf("skipping record with malformed tokens: %v", err)
			continue
		}
		seqs = append(seqs, tokens)
	}
	return seqs, rows.Err()
}

// Record loads a single record by id.
func (s *Store) Record(ctx context.Context, id string) (Record, error) {
	var rec Record
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT record FROM records WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal([]byte(raw), &rec)
	return rec, err
}

// Count returns the number of records in split, or of all records when
// split is empty.
func (s *Store) Count(ctx context.Context, split string) (int, error) {
	var n int
	var err error
	if split == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE split = ?", split).Scan(&n)
	}
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
