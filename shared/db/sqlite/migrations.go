package sqlite

import (
	"database/sql"

	"github.com/dfryer1193/postboard/shared/db"
)

// migrations is the ordered list of all SQLite schema migrations
var migrations = []db.Migration{
	{
		Version: 1,
		Name:    "create_posts_table",
		Up: `
			CREATE TABLE IF NOT EXISTS posts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				avatar_id TEXT,
				date TEXT NOT NULL,
				content TEXT NOT NULL,
				image_id TEXT
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_blobs_table",
		Up: `
			CREATE TABLE IF NOT EXISTS blobs (
				id TEXT PRIMARY KEY,
				content_type TEXT NOT NULL,
				content BLOB NOT NULL
			);
		`,
	},
}

// runMigrations executes all pending migrations
func runMigrations(sqlDB *sql.DB) error {
	return db.RunMigrations(sqlDB, db.DialectSQLite, migrations)
}
