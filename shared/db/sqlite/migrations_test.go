package sqlite

import (
	"path/filepath"
	"testing"
)

func connectTestDB(t *testing.T, path string) *SQLiteDB {
	t.Helper()
	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return database
}

func TestRunMigrations(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	for _, table := range []string{"schema_migrations", "posts", "blobs"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check %s table: %v", table, err)
		}
		if count != 1 {
			t.Errorf("%s table not created", table)
		}
	}

	var version int
	var name string
	err := db.QueryRow("SELECT version, name FROM schema_migrations WHERE version = 2").Scan(&version, &name)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if name != "create_blobs_table" {
		t.Errorf("name = %q, want %q", name, "create_blobs_table")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := connectTestDB(t, dbPath)
	database.Close()

	database = connectTestDB(t, dbPath)
	defer database.Close()

	var count int
	err := database.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("recorded %d migrations, want %d", count, len(migrations))
	}
}

func TestPostsTableSchema(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	res, err := db.Exec(`
		INSERT INTO posts (username, date, content)
		VALUES (?, ?, ?)
	`, "alice", "2024-01-02T03:04:05Z", "hello")
	if err != nil {
		t.Fatalf("Failed to insert post: %v", err)
	}
	first, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO posts (username, date, content) VALUES (?, ?, ?)`, "bob", "2024-01-02T03:04:06Z", "again")
	if err != nil {
		t.Fatalf("Failed to insert second post: %v", err)
	}
	second, _ := res.LastInsertId()

	if second <= first {
		t.Errorf("post ids not monotonic: first=%d second=%d", first, second)
	}

	_, err = db.Exec(`INSERT INTO posts (username, date) VALUES (?, ?)`, "carol", "2024-01-02T03:04:07Z")
	if err == nil {
		t.Error("expected NOT NULL violation for missing content")
	}
}

func TestBlobsTableRejectsDuplicateIDs(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	insert := `INSERT INTO blobs (id, content_type, content) VALUES (?, ?, ?)`
	if _, err := db.Exec(insert, "id-1", "image/png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Failed to insert blob: %v", err)
	}
	if _, err := db.Exec(insert, "id-1", "image/png", []byte{4}); err == nil {
		t.Error("expected primary key violation for duplicate blob id")
	}
}
