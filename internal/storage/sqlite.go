// Package storage provides SQLite-based persistence for forts and their
// siege history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-forts/internal/games/forts"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// FortRecord is the latest save of one fort.
type FortRecord struct {
	ID       string
	FortName string
	Round    int
	Phase    string
	Defense  int
	GridSize int
	Snapshot []byte
	SavedAt  time.Time
}

// RoundResult records the outcome of one siege.
type RoundResult struct {
	ID         int64
	FortID     string
	Round      int
	Damaged    int
	Defense    int
	Towers     int
	Structures int
	Wood       int
	Stone      int
	Food       int
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY between the game and the API.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS forts (
			id TEXT PRIMARY KEY,
			fort_name TEXT NOT NULL,
			round INTEGER NOT NULL,
			phase TEXT NOT NULL,
			defense INTEGER NOT NULL DEFAULT 0,
			grid_size INTEGER NOT NULL,
			snapshot BLOB NOT NULL,
			saved_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_forts_saved_at ON forts(saved_at DESC);
		CREATE INDEX IF NOT EXISTS idx_forts_defense ON forts(defense DESC);

		CREATE TABLE IF NOT EXISTS round_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fort_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			damaged INTEGER NOT NULL DEFAULT 0,
			defense INTEGER NOT NULL DEFAULT 0,
			towers INTEGER NOT NULL DEFAULT 0,
			structures INTEGER NOT NULL DEFAULT 0,
			wood INTEGER NOT NULL DEFAULT 0,
			stone INTEGER NOT NULL DEFAULT 0,
			food INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(fort_id, round)
		);
		CREATE INDEX IF NOT EXISTS idx_round_results_fort ON round_results(fort_id, round);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveFort inserts or replaces the save of a fort.
func (s *Store) SaveFort(rec FortRecord) error {
	if rec.ID == "" {
		return errors.New("storage: fort id is required")
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO forts (id, fort_name, round, phase, defense, grid_size, snapshot, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   fort_name = excluded.fort_name,
		   round = excluded.round,
		   phase = excluded.phase,
		   defense = excluded.defense,
		   grid_size = excluded.grid_size,
		   snapshot = excluded.snapshot,
		   saved_at = excluded.saved_at`,
		rec.ID, rec.FortName, rec.Round, rec.Phase, rec.Defense, rec.GridSize, rec.Snapshot,
		rec.SavedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save fort: %w", err)
	}
	return nil
}

// LoadFort retrieves a fort by id. Returns nil if it does not exist.
func (s *Store) LoadFort(id string) (*FortRecord, error) {
	var rec FortRecord
	var savedAt any

	err := s.db.QueryRow(
		`SELECT id, fort_name, round, phase, defense, grid_size, snapshot, saved_at
		 FROM forts
		 WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.FortName, &rec.Round, &rec.Phase, &rec.Defense, &rec.GridSize, &rec.Snapshot, &savedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query fort: %w", err)
	}

	rec.SavedAt = parseTime(savedAt)
	return &rec, nil
}

// ListForts retrieves saved forts, most recently saved first.
// Snapshots are not loaded.
func (s *Store) ListForts(limit int) ([]FortRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryForts(
		`SELECT id, fort_name, round, phase, defense, grid_size, saved_at
		 FROM forts
		 ORDER BY saved_at DESC, id
		 LIMIT ?`,
		limit,
	)
}

// TopForts retrieves the forts with the strongest defense.
// Snapshots are not loaded.
func (s *Store) TopForts(limit int) ([]FortRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryForts(
		`SELECT id, fort_name, round, phase, defense, grid_size, saved_at
		 FROM forts
		 ORDER BY defense DESC, round DESC, id
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryForts(query string, args ...any) ([]FortRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query forts: %w", err)
	}
	defer rows.Close()

	var records []FortRecord
	for rows.Next() {
		var rec FortRecord
		var savedAt any
		if err := rows.Scan(&rec.ID, &rec.FortName, &rec.Round, &rec.Phase, &rec.Defense, &rec.GridSize, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.SavedAt = parseTime(savedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// DeleteFort removes a fort and its round history.
// Returns false if the fort did not exist.
func (s *Store) DeleteFort(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM forts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete fort: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM round_results WHERE fort_id = ?", id); err != nil {
		return false, fmt.Errorf("storage: cannot delete rounds: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n > 0, nil
}

// RecordRound stores the outcome of a siege. Recording the same round of
// a fort again replaces the earlier result and keeps its row id.
func (s *Store) RecordRound(r RoundResult) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO round_results
		 (fort_id, round, damaged, defense, towers, structures, wood, stone, food)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(fort_id, round) DO UPDATE SET
		   damaged = excluded.damaged,
		   defense = excluded.defense,
		   towers = excluded.towers,
		   structures = excluded.structures,
		   wood = excluded.wood,
		   stone = excluded.stone,
		   food = excluded.food
		 RETURNING id`,
		r.FortID, r.Round, r.Damaged, r.Defense, r.Towers, r.Structures, r.Wood, r.Stone, r.Food,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record round: %w", err)
	}

	return id, nil
}

// RoundHistory retrieves the recorded sieges of a fort, oldest first.
// A limit of zero or less returns every round.
func (s *Store) RoundHistory(fortID string, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.Query(
		`SELECT id, fort_id, round, damaged, defense, towers, structures, wood, stone, food, created_at
		 FROM round_results
		 WHERE fort_id = ?
		 ORDER BY round
		 LIMIT ?`,
		fortID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var r RoundResult
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.FortID,
			&r.Round,
			&r.Damaged,
			&r.Defense,
			&r.Towers,
			&r.Structures,
			&r.Wood,
			&r.Stone,
			&r.Food,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// FortStats contains aggregated siege statistics for a fort.
type FortStats struct {
	FortID       string
	Rounds       int
	TotalDamaged int
	AvgDamaged   float64
	BestDefense  int
	LastSiege    time.Time
}

// GetFortStats aggregates the round history of a fort.
func (s *Store) GetFortStats(fortID string) (*FortStats, error) {
	stats := &FortStats{FortID: fortID}

	var lastSiege any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(damaged), 0), COALESCE(AVG(damaged), 0),
		        COALESCE(MAX(defense), 0), MAX(created_at)
		 FROM round_results WHERE fort_id = ?`,
		fortID,
	).Scan(&stats.Rounds, &stats.TotalDamaged, &stats.AvgDamaged, &stats.BestDefense, &lastSiege)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get fort stats: %w", err)
	}
	stats.LastSiege = parseTime(lastSiege)

	return stats, nil
}

// SaveFortData implements forts.SaveSink.
// This adapter lets the game autosave without a direct storage dependency.
func (s *Store) SaveFortData(data forts.SaveData) error {
	return s.SaveFort(FortRecord{
		ID:       data.ID,
		FortName: data.FortName,
		Round:    data.Round,
		Phase:    data.Phase,
		Defense:  data.Defense,
		GridSize: data.GridSize,
		Snapshot: data.Snapshot,
		SavedAt:  data.SavedAt,
	})
}

// RecordRoundData implements forts.SaveSink.
func (s *Store) RecordRoundData(data forts.RoundData) error {
	_, err := s.RecordRound(RoundResult{
		FortID:     data.FortID,
		Round:      data.Round,
		Damaged:    data.Damaged,
		Defense:    data.Defense,
		Towers:     data.Towers,
		Structures: data.Structures,
		Wood:       data.Resources.Wood,
		Stone:      data.Resources.Stone,
		Food:       data.Resources.Food,
	})
	return err
}

// Ensure Store implements SaveSink
var _ forts.SaveSink = (*Store)(nil)

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
