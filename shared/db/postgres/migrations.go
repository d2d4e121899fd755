package postgres

import "github.com/dfryer1193/postboard/shared/db"

var migrations = []db.Migration{
	{
		Version: 1,
		Name:    "create_posts_table",
		Up: `
			CREATE TABLE IF NOT EXISTS posts (
				id BIGSERIAL PRIMARY KEY,
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
				content BYTEA NOT NULL
			);
		`,
	},
}
