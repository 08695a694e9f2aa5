package jobsh

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryManager records executed job lists in SQLite.
type HistoryManager struct {
	db *sql.DB
}

// HistoryRecord is one stored line.
type HistoryRecord struct {
	ID         int64
	SessionID  string
	CWD        string
	Line       string
	ReturnCode int
	Canceled   bool
	Groups     int
	StartTime  int64
	EndTime    int64
	DurationMs int64
}

func NewHistoryManager(dbPath string) (*HistoryManager, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(homeDir, ".jobsh_history.sqlite")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for history: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
    CREATE TABLE IF NOT EXISTS joblist(
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        cwd TEXT NOT NULL,
        line TEXT NOT NULL,
        return_code INT NOT NULL,
        canceled INT NOT NULL,
        group_count INT NOT NULL,
        start_time INTEGER NOT NULL,
        end_time INTEGER NOT NULL,
        duration_ms INTEGER NOT NULL
    );`
	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	return &HistoryManager{db: db}, nil
}

func (h *HistoryManager) Close() error {
	return h.db.Close()
}

// Insert stores a finished command.
func (h *HistoryManager) Insert(cmd *Command, sessionID string) error {
	insertSQL := `INSERT INTO joblist (session_id, cwd, line, return_code, canceled, group_count, start_time, end_time, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := h.db.Exec(insertSQL, sessionID, cmd.CWD, cmd.Input, cmd.ReturnCode, cmd.Canceled, cmd.Groups,
		cmd.StartTime.Unix(), cmd.EndTime.Unix(), cmd.Duration.Milliseconds())
	return err
}

// Records returns the most recent limit entries, oldest first. A limit of 0
// returns everything.
func (h *HistoryManager) Records(limit int) ([]HistoryRecord, error) {
	query := `SELECT id, session_id, cwd, line, return_code, canceled, group_count, start_time, end_time, duration_ms
        FROM (SELECT * FROM joblist ORDER BY id DESC LIMIT ?) ORDER BY id`
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var r HistoryRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.CWD, &r.Line, &r.ReturnCode, &r.Canceled, &r.Groups,
			&r.StartTime, &r.EndTime, &r.DurationMs); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Dump returns every stored line.
func (h *HistoryManager) Dump() ([]string, error) {
	records, err := h.Records(0)
	if err != nil {
		return nil, err
	}
	history := make([]string, len(records))
	for i, r := range records {
		history[i] = r.Line
	}
	return history, nil
}

// Clear deletes every stored line.
func (h *HistoryManager) Clear() error {
	_, err := h.db.Exec("DELETE FROM joblist")
	return err
}

// Trim keeps only the newest keep lines. A keep of 0 or less keeps
// everything.
func (h *HistoryManager) Trim(keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := h.db.Exec(`DELETE FROM joblist WHERE id NOT IN
        (SELECT id FROM joblist ORDER BY id DESC LIMIT ?)`, keep)
	return err
}
