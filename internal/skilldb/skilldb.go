// Package skilldb stores player-skill samples in SQLite so a returning
// session can resume difficulty from where the last one left off instead of
// the cold-start default.
package skilldb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS skill_samples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	skill REAL NOT NULL,
	attacks INTEGER NOT NULL,
	dodges INTEGER NOT NULL,
	blocks INTEGER NOT NULL,
	avg_kill_time REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_skill_samples_recorded_at ON skill_samples(recorded_at);
`

// Sample is one recorded skill observation with its estimator inputs.
type Sample struct {
	RecordedAt      time.Time
	Skill           float64
	Attacks         uint64
	Dodges          uint64
	Blocks          uint64
	AverageKillTime float64
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("skilldb: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("skilldb: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("skilldb: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends a sample.
func (s *Store) Record(sample Sample) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("skilldb: store closed")
	}
	recordedAt := sample.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO skill_samples (recorded_at, skill, attacks, dodges, blocks, avg_kill_time) VALUES (?, ?, ?, ?, ?, ?)`,
		recordedAt.Unix(),
		sample.Skill,
		int64(sample.Attacks),
		int64(sample.Dodges),
		int64(sample.Blocks),
		sample.AverageKillTime,
	)
	if err != nil {
		return fmt.Errorf("skilldb: insert: %w", err)
	}
	return nil
}

// Latest returns the most recent sample, or false when the store is empty.
func (s *Store) Latest() (Sample, bool, error) {
	if s == nil || s.db == nil {
		return Sample{}, false, fmt.Errorf("skilldb: store closed")
	}
	row := s.db.QueryRow(
		`SELECT recorded_at, skill, attacks, dodges, blocks, avg_kill_time
		 FROM skill_samples ORDER BY recorded_at DESC, id DESC LIMIT 1`,
	)
	var recordedAt int64
	var sample Sample
	var attacks, dodges, blocks int64
	err := row.Scan(&recordedAt, &sample.Skill, &attacks, &dodges, &blocks, &sample.AverageKillTime)
	if err == sql.ErrNoRows {
		return Sample{}, false, nil
	}
	if err != nil {
		return Sample{}, false, fmt.Errorf("skilldb: query: %w", err)
	}
	sample.RecordedAt = time.Unix(recordedAt, 0)
	sample.Attacks = uint64(attacks)
	sample.Dodges = uint64(dodges)
	sample.Blocks = uint64(blocks)
	return sample, true, nil
}

// Recent returns up to limit samples, newest first.
func (s *Store) Recent(limit int) ([]Sample, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("skilldb: store closed")
	}
	if limit <= 0 {
		limit = 16
	}
	rows, err := s.db.Query(
		`SELECT recorded_at, skill, attacks, dodges, blocks, avg_kill_time
		 FROM skill_samples ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("skilldb: query: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var recordedAt int64
		var sample Sample
		var attacks, dodges, blocks int64
		if err := rows.Scan(&recordedAt, &sample.Skill, &attacks, &dodges, &blocks, &sample.AverageKillTime); err != nil {
			return nil, fmt.Errorf("skilldb: scan: %w", err)
		}
		sample.RecordedAt = time.Unix(recordedAt, 0)
		sample.Attacks = uint64(attacks)
		sample.Dodges = uint64(dodges)
		sample.Blocks = uint64(blocks)
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skilldb: rows: %w", err)
	}
	return samples, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
