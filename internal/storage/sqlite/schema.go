package sqlite

// initSchema creates the database schema if it doesn't exist.
func (db *DB) initSchema() error {
	schema := `
	-- One row per defined node
	CREATE TABLE IF NOT EXISTS globals (
		namespace TEXT NOT NULL,
		global TEXT NOT NULL,
		path TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, global, path)
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}
