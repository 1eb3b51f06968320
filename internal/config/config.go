package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	GitLab   GitLabConfig   `toml:"gitlab"`
	Board    BoardConfig    `toml:"board"`
	UI       UIConfig       `toml:"ui"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type GitLabConfig struct {
	// BaseURL and Token may also come from the credential store or the
	// environment; values here take precedence.
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	ProjectID int    `toml:"project_id"`
}

type BoardConfig struct {
	Columns []ColumnConfig `toml:"columns"`
}

type ColumnConfig struct {
	ID     string   `toml:"id"`
	Name   string   `toml:"name"`
	Emoji  string   `toml:"emoji"`
	Order  int      `toml:"order"`
	Color  string   `toml:"color"`
	Match  string   `toml:"match"` // labels | fallback | state-closed
	Labels []string `toml:"labels"`
}

type UIConfig struct {
	Language string `toml:"language"` // en | fr
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "open", Name: "Backlog", Emoji: "📋", Order: 0, Color: "#6b7280", Match: "fallback"},
		{ID: "to-validate", Name: "0 - À valider", Emoji: "⏳", Order: 1, Color: "#f59e0b", Match: "labels",
			Labels: []string{"⏳ 0 - À valider", "à valider", "to validate", "validation", "0-validation", "0 - à valider"}},
		{ID: "to-estimate", Name: "1 - À estimer", Emoji: "🎯", Order: 2, Color: "#8b5cf6", Match: "labels",
			Labels: []string{"🎯 1 - À estimer", "à estimer", "to estimate", "estimation", "1-estimation", "1 - à estimer"}},
		{ID: "to-develop", Name: "2 - À développer", Emoji: "📌", Order: 3, Color: "#3b82f6", Match: "labels",
			Labels: []string{"📌 2 - À développer", "à développer", "to develop", "todo", "à faire", "2-todo", "2 - à développer"}},
		{ID: "in-progress", Name: "3 - En cours", Emoji: "🏄", Order: 4, Color: "#06b6d4", Match: "labels",
			Labels: []string{"🏄 3 - En cours", "en cours", "in progress", "doing", "wip", "3-doing", "3 - en cours"}},
		{ID: "to-review", Name: "4 - À review", Emoji: "🔍", Order: 5, Color: "#ec4899", Match: "labels",
			Labels: []string{"🔍 4 - À review", "à review", "to review", "review", "code review", "4-review", "4 - à review"}},
		{ID: "to-test", Name: "5 - À tester", Emoji: "✅", Order: 6, Color: "#84cc16", Match: "labels",
			Labels: []string{"✅ 5 - À tester", "à tester", "to test", "testing", "qa", "5-testing", "5 - à tester"}},
		{ID: "to-deploy", Name: "6 - À déployer", Emoji: "🛫", Order: 7, Color: "#f97316", Match: "labels",
			Labels: []string{"🛫 6 - À déployer", "à déployer", "to deploy", "deployment", "ready", "6-deploy", "6 - à déployer"}},
		{ID: "closed", Name: "Terminé", Emoji: "🎉", Order: 8, Color: "#10b981", Match: "state-closed"},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Board: BoardConfig{
			Columns: defaultColumns(),
		},
		UI: UIConfig{
			Language: "en",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	// A config that sets [board] but no columns keeps the defaults.
	if len(cfg.Board.Columns) == 0 {
		cfg.Board.Columns = defaults.Board.Columns
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.UI.Language)) {
	case "", "en", "fr":
	default:
		return fmt.Errorf("invalid ui.language: %q", c.UI.Language)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	for idx, col := range c.Board.Columns {
		if strings.TrimSpace(col.ID) == "" {
			return fmt.Errorf("board.columns[%d].id is required", idx)
		}
		switch col.Match {
		case "labels", "fallback", "state-closed":
		default:
			return fmt.Errorf("board.columns[%d].match is invalid: %q", idx, col.Match)
		}
	}

	// Column-set construction enforces the structural rules: exactly one
	// fallback, exactly one state-closed, candidates on labels columns.
	if _, err := c.ColumnSet(); err != nil {
		return err
	}
	return nil
}

func (c Config) ColumnSet() (domain.ColumnSet, error) {
	defs := make([]domain.ColumnDefinition, 0, len(c.Board.Columns))
	for _, col := range c.Board.Columns {
		defs = append(defs, domain.ColumnDefinition{
			ID:              col.ID,
			Name:            col.Name,
			Emoji:           col.Emoji,
			Order:           col.Order,
			Color:           col.Color,
			Rule:            domain.MatchRule(col.Match),
			CandidateLabels: col.Labels,
		})
	}
	return domain.NewColumnSet(defs)
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
