package database

// Retention operates on created_at (storage-insert time), not published_at.
// An article back-dated in the feed but inserted recently is retained.

// CountArticlesOlderThan returns how many articles would be deleted for the
// given cutoff (DateTimeLayout, UTC like created_at).
func (db *DB) CountArticlesOlderThan(cutoff string) (int, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM articles WHERE created_at < ?", cutoff,
	).Scan(&n)
	return n, err
}

// DeleteArticlesOlderThan deletes articles created before cutoff in chunks of
// chunkSize rows, bounding lock duration on large tables. Returns the number
// of rows deleted.
func (db *DB) DeleteArticlesOlderThan(cutoff string, chunkSize int) (int, error) {
	return db.deleteChunked("articles", cutoff, chunkSize)
}

// CountFetchLogsOlderThan returns how many fetch log entries would be deleted
// for the given cutoff.
func (db *DB) CountFetchLogsOlderThan(cutoff string) (int, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM fetch_logs WHERE created_at < ?", cutoff,
	).Scan(&n)
	return n, err
}

// DeleteFetchLogsOlderThan deletes fetch log entries created before cutoff in
// chunks of chunkSize rows. Returns the number of rows deleted.
func (db *DB) DeleteFetchLogsOlderThan(cutoff string, chunkSize int) (int, error) {
	return db.deleteChunked("fetch_logs", cutoff, chunkSize)
}

func (db *DB) deleteChunked(table, cutoff string, chunkSize int) (int, error) {
	if chunkSize < 1 {
		chunkSize = 1000
	}

	deleted := 0
	for {
		result, err := db.conn.Exec(
			`DELETE FROM `+table+` WHERE id IN (
				SELECT id FROM `+table+` WHERE created_at < ? ORDER BY id LIMIT ?)`,
			cutoff, chunkSize,
		)
		if err != nil {
			return deleted, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return deleted, err
		}
		deleted += int(rows)
		if rows < int64(chunkSize) {
			return deleted, nil
		}
	}
}
