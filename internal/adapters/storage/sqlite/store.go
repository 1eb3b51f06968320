// Package sqlite persists the board's local state: GitLab credentials sealed
// at rest, the set of tracked projects, and UI preferences.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/secret"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// ErrNoCredentials reports that no usable credentials are stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the stored GitLab connection.
type Credentials struct {
	BaseURL string
	Token   string
}

// Store represents store data used by this package.
type Store struct {
	db     *sql.DB
	sealer *secret.Sealer
}

// Open opens the requested operation.
func Open(path string, sealer *secret.Sealer) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &Store{db: db, sealer: sealer}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenInMemory opens in memory.
func OpenInMemory(sealer *secret.Sealer) (*Store, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	store := &Store{db: db, sealer: sealer}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the requested operation.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate handles migrate.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			base_url TEXT NOT NULL,
			token_sealed TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id INTEGER NOT NULL UNIQUE,
			name TEXT NOT NULL,
			path_with_namespace TEXT NOT NULL DEFAULT '',
			web_url TEXT NOT NULL DEFAULT '',
			added_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SaveCredentials seals the token and stores the connection, replacing any
// previous one.
func (s *Store) SaveCredentials(ctx context.Context, creds Credentials) error {
	sealed, err := s.sealer.Seal(creds.Token)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, base_url, token_sealed, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base_url = excluded.base_url,
			token_sealed = excluded.token_sealed,
			updated_at = excluded.updated_at
	`, creds.BaseURL, sealed, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Credentials returns the stored connection with the token opened. A token
// that no longer decrypts, typically after the database moved machines, is
// cleared so the next start asks for credentials again.
func (s *Store) Credentials(ctx context.Context) (Credentials, error) {
	var baseURL, sealed string
	err := s.db.QueryRowContext(ctx, `SELECT base_url, token_sealed FROM credentials WHERE id = 1`).
		Scan(&baseURL, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		log.Warn("stored token no longer decrypts, clearing credentials", "err", err)
		if clearErr := s.ClearCredentials(ctx); clearErr != nil {
			return Credentials{}, fmt.Errorf("clear stale credentials: %w", clearErr)
		}
		return Credentials{}, ErrNoCredentials
	}
	return Credentials{BaseURL: baseURL, Token: token}, nil
}

// ClearCredentials removes the stored connection.
func (s *Store) ClearCredentials(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// AddProject records a project as tracked.
func (s *Store) AddProject(ctx context.Context, project domain.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, path_with_namespace, web_url, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			path_with_namespace = excluded.path_with_namespace,
			web_url = excluded.web_url
	`, project.ID, project.Name, project.PathWithNamespace, project.WebURL,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add project %d: %w", project.ID, err)
	}
	return nil
}

// RemoveProject drops a project from the tracked set.
func (s *Store) RemoveProject(ctx context.Context, projectID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("remove project %d: %w", projectID, err)
	}
	return nil
}

// ListProjects returns the tracked projects in the order they were added.
// The sequence column orders them; added_at is wall-clock metadata only.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path_with_namespace, web_url FROM projects ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.PathWithNamespace, &p.WebURL); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// SetSetting stores one UI preference, such as the language.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Setting returns one UI preference, or fallback when unset.
func (s *Store) Setting(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}
