// Package store persists task history, decision logs and provider
// credentials in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zen-systems/taskgate/pkg/audit"
	"github.com/zen-systems/taskgate/pkg/dispatch"
	"github.com/zen-systems/taskgate/pkg/task"
)

// DefaultPath is the default location for the SQLite database.
const DefaultPath = ".taskgate/taskgate.db"

// Store wraps the SQLite database. It implements the dispatcher's
// HistoryStore and CredentialSource interfaces and the audit Sink.
type Store struct {
	db   *sql.DB
	path string
}

// Config configures the store.
type Config struct {
	Path string
}

// New opens (or creates) the database and initializes the schema.
func New(cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent readers alongside the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS task_history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		task_type TEXT NOT NULL,
		description TEXT,
		prompt TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_task_history_user ON task_history(user_id, status);

	CREATE TABLE IF NOT EXISTS decision_log (
		id TEXT PRIMARY KEY,
		task_type TEXT NOT NULL,
		model_used TEXT NOT NULL,
		decision_score REAL NOT NULL,
		reasoning TEXT NOT NULL,
		execution_time_ms INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decision_log_created ON decision_log(created_at);

	CREATE TABLE IF NOT EXISTS provider_keys (
		user_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		api_key TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, provider)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTaskHistory inserts a pending history record.
func (s *Store) CreateTaskHistory(ctx context.Context, userID string, taskType task.Type, description, prompt string) (*dispatch.HistoryRecord, error) {
	record := &dispatch.HistoryRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskType:    taskType,
		Description: description,
		Prompt:      prompt,
		Status:      dispatch.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_history (id, user_id, task_type, description, prompt, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, string(record.TaskType), record.Description,
		record.Prompt, string(record.Status), record.CreatedAt, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task history: %w", err)
	}
	return record, nil
}

// UpdateTaskStatus transitions a history record.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status dispatch.Status) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE task_history SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task history: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("task history %s not found", id)
	}
	return nil
}

// CompletedTaskHistory returns a user's completed records, newest first.
func (s *Store) CompletedTaskHistory(ctx context.Context, userID string) ([]dispatch.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, task_type, description, prompt, status, created_at
		FROM task_history
		WHERE user_id = ? AND status = 'completed'
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query task history: %w", err)
	}
	defer rows.Close()

	var records []dispatch.HistoryRecord
	for rows.Next() {
		var record dispatch.HistoryRecord
		var taskType, status string
		if err := rows.Scan(&record.ID, &record.UserID, &taskType, &record.Description,
			&record.Prompt, &status, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.TaskType = task.Type(taskType)
		record.Status = dispatch.Status(status)
		records = append(records, record)
	}
	return records, rows.Err()
}

// Record appends a decision log entry. Implements audit.Sink.
func (s *Store) Record(ctx context.Context, entry audit.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decision_log (id, task_type, model_used, decision_score, reasoning, execution_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.TaskType), entry.ModelUsed, entry.DecisionScore,
		entry.Reasoning, entry.ExecutionTimeMs, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// RecentDecisions returns the newest decision entries, most recent first.
func (s *Store) RecentDecisions(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_type, model_used, decision_score, reasoning, execution_time_ms, created_at
		FROM decision_log
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var taskType string
		if err := rows.Scan(&entry.ID, &taskType, &entry.ModelUsed, &entry.DecisionScore,
			&entry.Reasoning, &entry.ExecutionTimeMs, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.TaskType = task.Type(taskType)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SetProviderKey stores (or replaces) a user's credential for a provider.
func (s *Store) SetProviderKey(ctx context.Context, userID string, provider task.Provider, apiKey string) error {
	if !task.KnownProvider(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_keys (user_id, provider, api_key, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET api_key = excluded.api_key`,
		userID, string(provider), apiKey, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store provider key: %w", err)
	}
	return nil
}

// ProviderKeys returns a user's stored credentials keyed by provider.
func (s *Store) ProviderKeys(ctx context.Context, userID string) (map[task.Provider]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, api_key FROM provider_keys WHERE user_id = ? AND api_key != ''`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[task.Provider]string)
	for rows.Next() {
		var name, key string
		if err := rows.Scan(&name, &key); err != nil {
			return nil, err
		}
		keys[task.Provider(name)] = key
	}
	return keys, rows.Err()
}

// AvailableProviders returns the providers a user has credentials for, in
// registry order. Implements dispatch.CredentialSource.
func (s *Store) AvailableProviders(ctx context.Context, userID string) ([]task.Provider, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider FROM provider_keys WHERE user_id = ? AND api_key != ''`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider keys: %w", err)
	}
	defer rows.Close()

	configured := make(map[task.Provider]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		configured[task.Provider(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var providers []task.Provider
	for _, provider := range task.Providers() {
		if configured[provider] {
			providers = append(providers, provider)
		}
	}
	return providers, nil
}
