package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"blogcomments/internal/config"
)

// Supported DB_DRIVER values
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	var dsn string
	switch cfg.DBDriver {
	case DriverPostgres:
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	case DriverSQLite:
		dsn = SQLiteDSN(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := sqlx.Connect(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DBDriver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	log.Printf("Connected to database successfully (driver=%s)", cfg.DBDriver)
	return db, nil
}

// SQLiteDSN builds a DSN with foreign keys enforced, so a comment cannot be
// deleted while replies still reference it.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

// schema is portable across PostgreSQL and SQLite. Ids are UUID strings.
// Replies reference comments without ON DELETE CASCADE: the comment service
// removes replies itself before their owning comment.
const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id              VARCHAR(36) PRIMARY KEY,
	title           TEXT NOT NULL,
	slug            TEXT NOT NULL DEFAULT '',
	create_time_utc TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id              VARCHAR(36) PRIMARY KEY,
	post_id         VARCHAR(36) NOT NULL REFERENCES posts(id),
	username        VARCHAR(64) NOT NULL,
	email           VARCHAR(128) NOT NULL,
	ip_address      VARCHAR(64) NOT NULL DEFAULT '',
	comment_content TEXT NOT NULL,
	create_time_utc TIMESTAMP NOT NULL,
	is_approved     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_comments_post_approved ON comments(post_id, is_approved);
CREATE INDEX IF NOT EXISTS idx_comments_create_time ON comments(create_time_utc);

CREATE TABLE IF NOT EXISTS comment_replies (
	id              VARCHAR(36) PRIMARY KEY,
	comment_id      VARCHAR(36) NOT NULL REFERENCES comments(id),
	reply_content   TEXT NOT NULL,
	create_time_utc TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comment_replies_comment ON comment_replies(comment_id);

CREATE TABLE IF NOT EXISTS banned_words (
	word VARCHAR(128) PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id              VARCHAR(36) PRIMARY KEY,
	kind            VARCHAR(64) NOT NULL,
	detail          TEXT NOT NULL,
	create_time_utc TIMESTAMP NOT NULL
);
`

// Migrate creates the tables this service owns if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Println("Database schema is up to date")
	return nil
}
