package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/carrickvaughan/dropship-trends-app/internal/model"
)

// timeLayout is the text timestamp format for the snapshot table. RFC3339
// sorts lexicographically, so ORDER BY time ASC is chronological.
const timeLayout = time.RFC3339

// SQLiteStore persists snapshots and saved swipes to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboard reads
	// while the refresh cycle writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trend_snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			time             TEXT NOT NULL,
			product          TEXT NOT NULL,
			google_score     REAL,
			ali_score        REAL,
			tiktok_score     REAL,
			price            REAL,
			profit_margin    REAL,
			trend_score      REAL,
			profit_potential REAL,
			image_url        TEXT,
			search_url       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_time ON trend_snapshots(time)`,

		`CREATE TABLE IF NOT EXISTS saved_swipes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			product    TEXT NOT NULL,
			image_url  TEXT,
			source_url TEXT,
			caption    TEXT,
			saved_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_product ON saved_swipes(product)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Append persists all rows of one snapshot inside a single transaction so
// the history analyzer never observes a half-written cycle.
func (s *SQLiteStore) Append(snap model.Snapshot) error {
	if len(snap) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO trend_snapshots
		(time, product, google_score, ali_score, tiktok_score,
		 price, profit_margin, trend_score, profit_potential, image_url, search_url)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, r := range snap {
		if _, err := stmt.Exec(
			r.Time.UTC().Format(timeLayout), r.Product,
			r.GoogleScore, r.AliScore, r.TikTokScore,
			r.Price, r.ProfitMargin, r.TrendScore, r.ProfitPotential,
			r.ImageURL, r.SearchURL,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %q: %w", r.Product, err)
		}
	}
	return tx.Commit()
}

// LoadHistory returns all persisted rows ordered by time ascending.
func (s *SQLiteStore) LoadHistory() ([]model.ScoredRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT time, product, google_score, ali_score, tiktok_score,
		price, profit_margin, trend_score, profit_potential, image_url, search_url
		FROM trend_snapshots ORDER BY time ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var history []model.ScoredRow
	for rows.Next() {
		var r model.ScoredRow
		var ts string
		var imageURL, searchURL sql.NullString
		if err := rows.Scan(&ts, &r.Product, &r.GoogleScore, &r.AliScore, &r.TikTokScore,
			&r.Price, &r.ProfitMargin, &r.TrendScore, &r.ProfitPotential,
			&imageURL, &searchURL); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", ts, err)
		}
		r.Time = t
		r.ImageURL = imageURL.String
		r.SearchURL = searchURL.String
		history = append(history, r)
	}
	return history, rows.Err()
}

// SaveSwipe appends one bookmarked ad creative and fills in its id and
// save timestamp.
func (s *SQLiteStore) SaveSwipe(sw *model.SavedSwipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw.SavedAt = time.Now().UTC()
	res, err := s.db.Exec(`INSERT INTO saved_swipes (product, image_url, source_url, caption, saved_at)
		VALUES (?,?,?,?,?)`,
		sw.Product, sw.ImageURL, sw.SourceURL, sw.Caption, sw.SavedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert swipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("swipe id: %w", err)
	}
	sw.ID = id
	return nil
}

// LoadSwipes returns all saved swipes ordered by save time ascending.
func (s *SQLiteStore) LoadSwipes() ([]model.SavedSwipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, product, image_url, source_url, caption, saved_at
		FROM saved_swipes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query swipes: %w", err)
	}
	defer rows.Close()

	var swipes []model.SavedSwipe
	for rows.Next() {
		var sw model.SavedSwipe
		var ts string
		if err := rows.Scan(&sw.ID, &sw.Product, &sw.ImageURL, &sw.SourceURL, &sw.Caption, &ts); err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at %q: %w", ts, err)
		}
		sw.SavedAt = t
		swipes = append(swipes, sw)
	}
	return swipes, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
