package tracker

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"  // Import the PostgreSQL driver
	_ "modernc.org/sqlite" // Import the pure-Go SQLite driver

	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SqlStore persists a namespace as rows of a shared preferences table.
type SqlStore struct {
	db        *sql.DB
	dialect   string
	namespace string
	logger    logging.Logger
}

// NewSqlStore opens the database for the given dialect and ensures the schema exists.
// For sqlite the dsn is a file path; for postgres it is a connection string.
func NewSqlStore(dialect, dsn, namespace string) (*SqlStore, error) {
	logger := logging.Get().Named("sql_store")
	if namespace == "" {
		namespace = DefaultNamespace
	}

	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite"
		if !strings.Contains(dsn, "?") && dsn != ":memory:" {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
	default:
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL database: %w", err)
	}
	if dialect == DialectSQLite {
		// A single connection keeps ":memory:" databases alive across calls.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close() // Close connection if ping fails
		return nil, fmt.Errorf("failed to connect to SQL database: %w", err)
	}

	s := &SqlStore{db: db, dialect: dialect, namespace: namespace, logger: logger}

	if err := s.ensureSchema(); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	s.logger.Debug("SQL store initialized successfully.", "dialect", dialect, "namespace", namespace)
	return s, nil
}

// ensureSchema creates the preferences table if it doesn't already exist.
func (s *SqlStore) ensureSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS rating_prompt_prefs (
		namespace VARCHAR(100) NOT NULL,
		pref_key VARCHAR(100) NOT NULL,
		pref_value TEXT NOT NULL,
		updated_at_ms BIGINT NOT NULL,
		PRIMARY KEY (namespace, pref_key)
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute schema creation query: %w", err)
	}
	return nil
}

// bind rewrites $n placeholders for dialects that only understand "?".
func (s *SqlStore) bind(query string) string {
	if s.dialect != DialectSQLite {
		return query
	}
	for i := 9; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), "?")
	}
	return query
}

// Get returns the stored value for key. A missing row is not an error.
func (s *SqlStore) Get(key string) (string, bool, error) {
	var value string
	query := s.bind(`SELECT pref_value FROM rating_prompt_prefs WHERE namespace = $1 AND pref_key = $2`)
	err := s.db.QueryRow(query, s.namespace, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value; updated_at_ms is informational only.
func (s *SqlStore) Set(key string, value string) error {
	query := s.bind(`
	INSERT INTO rating_prompt_prefs (namespace, pref_key, pref_value, updated_at_ms)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (namespace, pref_key) DO UPDATE SET pref_value = excluded.pref_value, updated_at_ms = excluded.updated_at_ms`)
	_, err := s.db.Exec(query, s.namespace, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert preference %q: %w", key, err)
	}
	return nil
}

// Clear deletes every row of this namespace. Other namespaces sharing the table are untouched.
func (s *SqlStore) Clear() error {
	query := s.bind(`DELETE FROM rating_prompt_prefs WHERE namespace = $1`)
	if _, err := s.db.Exec(query, s.namespace); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	if s.db != nil {
		s.logger.Debug("Closing SQL store database connection...")
		return s.db.Close()
	}
	return nil
}
