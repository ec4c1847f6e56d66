// Package session persists quiz sessions: the flow stage, the running
// answer list and the standings snapshot taken at each phase boundary.
//
// The engine itself is stateless; this store is what lets the MCP tools
// replay a session's selections on every call.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HendryAvila/dossier/internal/pipeline"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/scoring"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFile is the database file name inside the data directory.
const DBFile = "sessions.db"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session: not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is one quiz run.
type Session struct {
	ID        string         `json:"id"`
	Stage     pipeline.Stage `json:"stage"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// Answer is a stored selection plus the reaction shown for it.
type Answer struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
	Reaction   string   `json:"reaction"`
	AnsweredAt string   `json:"answered_at"`
}

// Snapshot is the standings recorded at a phase boundary.
type Snapshot struct {
	Boundary  int                `json:"boundary"`
	Standings []profile.Standing `json:"standings"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the session database backed by SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the session database in dataDir with WAL
// mode and runs migrations.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("session: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("session: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			stage      TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS answers (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL,
			question_id TEXT NOT NULL,
			option_ids  TEXT NOT NULL,
			reaction    TEXT NOT NULL DEFAULT '',
			answered_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE (session_id, question_id),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS standings (
			session_id TEXT    NOT NULL,
			boundary   INTEGER NOT NULL,
			standings  TEXT    NOT NULL,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (session_id, boundary),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_answers_session ON answers(session_id);
	`)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession registers a new session at the first flow stage.
func (s *Store) CreateSession(id string) (*Session, error) {
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, stage) VALUES (?, ?)`,
		id, string(pipeline.StageAnswering1),
	); err != nil {
		return nil, fmt.Errorf("session: create %q: %w", id, err)
	}
	return s.GetSession(id)
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	var sess Session
	var stage string
	err := s.db.QueryRow(
		`SELECT id, stage, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &stage, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %q: %w", id, err)
	}
	sess.Stage = pipeline.Stage(stage)
	return &sess, nil
}

// SetStage records a new flow stage for a session.
func (s *Store) SetStage(id string, stage pipeline.Stage) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET stage = ?, updated_at = datetime('now') WHERE id = ?`,
		string(stage), id,
	)
	if err != nil {
		return fmt.Errorf("session: set stage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Answers ─────────────────────────────────────────────────────────────────

// SaveAnswer stores a selection. Answering a question again replaces the
// stored options but keeps the question's original position in the
// answer order.
func (s *Store) SaveAnswer(sessionID string, sel scoring.Selection, reaction string) error {
	ids, err := json.Marshal(sel.OptionIDs)
	if err != nil {
		return fmt.Errorf("session: encode options: %w", err)
	}
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO answers (session_id, question_id, option_ids, reaction)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, question_id) DO UPDATE SET
			option_ids  = excluded.option_ids,
			reaction    = excluded.reaction,
			answered_at = datetime('now')`,
		sessionID, sel.QuestionID, string(ids), reaction,
	)
	if err != nil {
		return fmt.Errorf("session: save answer: %w", err)
	}
	_, err = s.db.Exec(`UPDATE sessions SET updated_at = datetime('now') WHERE id = ?`, sessionID)
	return err
}

// Answers returns a session's answers in first-answered order.
func (s *Store) Answers(sessionID string) ([]Answer, error) {
	rows, err := s.db.Query(
		`SELECT question_id, option_ids, reaction, answered_at
		 FROM answers WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("session: list answers: %w", err)
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		var a Answer
		var ids string
		if err := rows.Scan(&a.QuestionID, &ids, &a.Reaction, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("session: scan answer: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &a.OptionIDs); err != nil {
			return nil, fmt.Errorf("session: decode options for %s: %w", a.QuestionID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Selections returns a session's answers as engine selections.
func (s *Store) Selections(sessionID string) ([]scoring.Selection, error) {
	answers, err := s.Answers(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Selection, len(answers))
	for i, a := range answers {
		out[i] = scoring.Selection{QuestionID: a.QuestionID, OptionIDs: a.OptionIDs}
	}
	return out, nil
}

// ─── Standings ───────────────────────────────────────────────────────────────

// SaveStandings records the standings shown at a boundary, replacing any
// earlier snapshot for the same boundary.
func (s *Store) SaveStandings(sessionID string, boundary int, standings []profile.Standing) error {
	data, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("session: encode standings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO standings (session_id, boundary, standings) VALUES (?, ?, ?)
		ON CONFLICT (session_id, boundary) DO UPDATE SET
			standings  = excluded.standings,
			created_at = datetime('now')`,
		sessionID, boundary, string(data),
	)
	if err != nil {
		return fmt.Errorf("session: save standings: %w", err)
	}
	return nil
}

// LatestStandings returns the snapshot from the highest boundary below
// before, or nil when there is none.
func (s *Store) LatestStandings(sessionID string, before int) (*Snapshot, error) {
	var snap Snapshot
	var data string
	err := s.db.QueryRow(
		`SELECT boundary, standings FROM standings
		 WHERE session_id = ? AND boundary < ?
		 ORDER BY boundary DESC LIMIT 1`, sessionID, before,
	).Scan(&snap.Boundary, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: latest standings: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Standings); err != nil {
		return nil, fmt.Errorf("session: decode standings: %w", err)
	}
	return &snap, nil
}
