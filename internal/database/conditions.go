package database

import "database/sql"

// The search_conditions table is a small key-value store used to remember
// the last-used search filters between invocations.

// GetCondition returns the value stored under key; ok is false when the key
// was never saved.
func (db *DB) GetCondition(key string) (value string, ok bool, err error) {
	err = db.conn.QueryRow(
		"SELECT value FROM search_conditions WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutCondition stores value under key, replacing any previous value.
func (db *DB) PutCondition(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO search_conditions (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return err
}

// ForgetCondition removes the value stored under key, if any.
func (db *DB) ForgetCondition(key string) error {
	_, err := db.conn.Exec("DELETE FROM search_conditions WHERE key = ?", key)
	return err
}
