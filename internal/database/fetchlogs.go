package database

import (
	"database/sql"
)

// InsertFetchLog records the outcome of one ingestion run. Entries are
// write-once; nothing ever updates them.
func (db *DB) InsertFetchLog(fetchedAt, status string, articlesCount int, errorMessage *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO fetch_logs (fetched_at, status, articles_count, error_message)
		VALUES (?, ?, ?, ?)`,
		fetchedAt, status, articlesCount, errorMessage,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LatestFetchLog returns the most recent fetch log entry, or nil when no run
// has been recorded yet.
func (db *DB) LatestFetchLog() (*FetchLog, error) {
	return db.latestLog("")
}

// LatestSuccessFetchLog returns the most recent successful entry, or nil.
func (db *DB) LatestSuccessFetchLog() (*FetchLog, error) {
	return db.latestLog(StatusSuccess)
}

func (db *DB) latestLog(status string) (*FetchLog, error) {
	query := `SELECT id, fetched_at, status, articles_count, error_message, created_at
		FROM fetch_logs`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY id DESC LIMIT 1"

	row := db.conn.QueryRow(query, args...)
	var l FetchLog
	err := row.Scan(&l.ID, &l.FetchedAt, &l.Status, &l.ArticlesCount, &l.ErrorMessage, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CountFetchLogs returns the total number of fetch log entries.
func (db *DB) CountFetchLogs() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM fetch_logs").Scan(&n)
	return n, err
}

// GetStats returns aggregate statistics for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM articles").Scan(&s.TotalArticles); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM fetch_logs").Scan(&s.TotalLogs); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM fetch_logs WHERE status = ?", StatusFailure,
	).Scan(&s.FailedLogs); err != nil {
		return nil, err
	}
	return s, nil
}
