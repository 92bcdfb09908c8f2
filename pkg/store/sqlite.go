package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stratumlabs/stratum/pkg/domain"
)

// SQLite persists settings as JSON payloads in a single table. It is suited
// to single-instance deployments that need snapshots to survive restarts.
//
// The database is opened in WAL mode with a single writer connection, which
// is the concurrency model SQLite actually supports.
type SQLite struct {
	db        *sql.DB
	precision int
	mu        sync.RWMutex
	closeOnce sync.Once

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path. Use ":memory:" for an ephemeral store.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// Precision validates variant weights on Put. Default: domain.DefaultPrecision.
	Precision int
}

// NewSQLite opens or creates a settings database at path with defaults.
func NewSQLite(path string) (*SQLite, error) {
	return NewSQLiteWithConfig(SQLiteConfig{Path: path})
}

// NewSQLiteWithConfig opens a settings database with custom configuration.
func NewSQLiteWithConfig(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, domain.NewConfigError("path", "sqlite path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Precision == 0 {
		cfg.Precision = domain.DefaultPrecision
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{db: db, precision: cfg.Precision}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		tenant TEXT NOT NULL,
		key TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (tenant, key)
	);

	CREATE INDEX IF NOT EXISTS idx_settings_updated_at ON settings(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT payload FROM settings WHERE tenant = ? AND key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO settings (tenant, key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant, key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM settings WHERE tenant = ? AND key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Put validates and upserts a setting for a tenant.
func (s *SQLite) Put(ctx context.Context, tenantID string, setting *domain.Setting) error {
	if setting == nil {
		return domain.NewValidationError("setting cannot be nil")
	}
	if err := setting.Validate(s.precision); err != nil {
		return err
	}

	payload, err := json.Marshal(recordFromDomain(tenantID, setting))
	if err != nil {
		return fmt.Errorf("failed to marshal setting %q: %w", setting.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.putStmt.ExecContext(ctx, tenantID, setting.Key, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save setting %q: %w", setting.Key, err)
	}

	return nil
}

// Delete removes a setting. Deleting an absent key is not an error.
func (s *SQLite) Delete(ctx context.Context, tenantID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, tenantID, key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}

	return nil
}

// GetSetting implements domain.SettingStore.
func (s *SQLite) GetSetting(ctx context.Context, tenantID, key string) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.getStmt.QueryRowContext(ctx, tenantID, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError(tenantID, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load setting %q: %w", key, err)
	}

	var record settingRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal setting %q: %w", key, err)
	}

	return record.toDomain()
}

// Close releases the database and prepared statements. It is idempotent.
func (s *SQLite) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.getStmt != nil {
			s.getStmt.Close()
		}
		if s.putStmt != nil {
			s.putStmt.Close()
		}
		if s.deleteStmt != nil {
			s.deleteStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}
