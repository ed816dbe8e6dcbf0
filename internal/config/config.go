package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"blogcomments/internal/wordfilter"
)

// ContentSettings is the moderation policy applied to new comments.
type ContentSettings struct {
	EnableWordFilter     bool
	WordFilterMode       wordfilter.Mode
	RequireCommentReview bool
}

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RedisURL string

	Content ContentSettings

	// BannedWords seeds the banned word store on startup.
	BannedWords []string

	AuditWorkers int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" {
		dbDriver = "postgres"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "./data/comments.db"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	mode := wordfilter.ModeMask
	if raw := os.Getenv("WORD_FILTER_MODE"); raw != "" {
		mode, err = wordfilter.ParseMode(raw)
		if err != nil {
			return nil, err
		}
	}

	auditWorkers, err := strconv.Atoi(os.Getenv("AUDIT_WORKERS"))
	if err != nil || auditWorkers <= 0 {
		auditWorkers = 2
	}

	return &Config{
		DBDriver:   dbDriver,
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,
		SQLitePath: sqlitePath,

		RedisURL: redisURL,

		Content: ContentSettings{
			EnableWordFilter:     envBool("ENABLE_WORD_FILTER", true),
			WordFilterMode:       mode,
			RequireCommentReview: envBool("REQUIRE_COMMENT_REVIEW", true),
		},

		BannedWords: wordfilter.SplitTerms(os.Getenv("BANNED_WORDS")),

		AuditWorkers: auditWorkers,
	}, nil
}

// envBool reads a boolean variable, falling back to def when unset or invalid.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[Config] Invalid boolean for %s=%q, using %t", key, raw, def)
		return def
	}
	return v
}
