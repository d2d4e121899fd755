package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dfryer1193/postboard/shared/db"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultDSN     = "postgres://localhost:5432/postboard?sslmode=disable"
	connectTimeout = 5 * time.Second
)

type PostgresConfig struct {
	DSN string
}

// PostgresDB implements the db.Database interface on top of the pgx stdlib driver
type PostgresDB struct {
	dsn string
	db  *sql.DB
}

func NewPostgresDB(cfg *PostgresConfig) *PostgresDB {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultDSN
	}
	return &PostgresDB{dsn: dsn}
}

// Connect opens a pooled connection, verifies it and runs pending migrations.
func (p *PostgresDB) Connect() error {
	if p.db != nil {
		return fmt.Errorf("database already connected")
	}

	sqlDB, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.RunMigrations(sqlDB, db.DialectPostgres, migrations); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	p.db = sqlDB
	return nil
}

func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

func (p *PostgresDB) DB() *sql.DB {
	return p.db
}

func (p *PostgresDB) Dialect() db.Dialect {
	return db.DialectPostgres
}
