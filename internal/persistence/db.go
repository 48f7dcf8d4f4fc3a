// Package persistence provides SQLite-based storage for experiment results.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for run and episode records.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		num_agents INTEGER NOT NULL,
		sigma_beta REAL NOT NULL,
		alpha REAL NOT NULL,
		contract_value REAL NOT NULL,
		seed INTEGER NOT NULL,
		episodes INTEGER NOT NULL,
		episode_length INTEGER NOT NULL,
		policies_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS episodes (
		run_id TEXT NOT NULL,
		episode INTEGER NOT NULL,
		collusion_rate REAL NOT NULL,
		mean_rewards_json TEXT NOT NULL,
		beta_json TEXT NOT NULL,
		PRIMARY KEY (run_id, episode)
	);

	CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRecord describes one experiment run.
type RunRecord struct {
	ID            string
	NumAgents     int
	SigmaBeta     float64
	Alpha         float64
	ContractValue float64
	Seed          uint64
	Episodes      int
	EpisodeLength int
	Policies      []string
}

// EpisodeRecord describes the aggregate outcome of one episode.
type EpisodeRecord struct {
	Episode       int
	CollusionRate float64
	MeanRewards   []float64
	Beta          []float64
}

// SaveRun inserts the run header row.
func (db *DB) SaveRun(run RunRecord) error {
	policies, err := json.Marshal(run.Policies)
	if err != nil {
		return fmt.Errorf("marshal policies: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO runs (id, created_at, num_agents, sigma_beta, alpha,
			contract_value, seed, episodes, episode_length, policies_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, time.Now().UTC().Format(time.RFC3339), run.NumAgents,
		run.SigmaBeta, run.Alpha, run.ContractValue, int64(run.Seed),
		run.Episodes, run.EpisodeLength, string(policies),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// SaveEpisodes writes all episode records of a run in one transaction.
func (db *DB) SaveEpisodes(runID string, records []EpisodeRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		rewards, err := json.Marshal(rec.MeanRewards)
		if err != nil {
			return fmt.Errorf("marshal rewards: %w", err)
		}
		beta, err := json.Marshal(rec.Beta)
		if err != nil {
			return fmt.Errorf("marshal beta: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO episodes (run_id, episode, collusion_rate,
				mean_rewards_json, beta_json)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, rec.Episode, rec.CollusionRate, string(rewards), string(beta),
		); err != nil {
			return fmt.Errorf("insert episode %d: %w", rec.Episode, err)
		}
	}

	return tx.Commit()
}

// LoadEpisodes returns the episode records of a run in episode order.
func (db *DB) LoadEpisodes(runID string) ([]EpisodeRecord, error) {
	rows, err := db.conn.Queryx(
		`SELECT episode, collusion_rate, mean_rewards_json, beta_json
		 FROM episodes WHERE run_id = ? ORDER BY episode`, runID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var rec EpisodeRecord
		var rewards, beta string
		if err := rows.Scan(&rec.Episode, &rec.CollusionRate, &rewards, &beta); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		if err := json.Unmarshal([]byte(rewards), &rec.MeanRewards); err != nil {
			return nil, fmt.Errorf("unmarshal rewards: %w", err)
		}
		if err := json.Unmarshal([]byte(beta), &rec.Beta); err != nil {
			return nil, fmt.Errorf("unmarshal beta: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
