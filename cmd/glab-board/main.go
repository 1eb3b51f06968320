package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Silvio-Br/gitlab-issue-manager/internal/adapters/gitlab"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/adapters/server"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/adapters/storage/sqlite"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/app"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/config"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/domain"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/platform"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/secret"
	"github.com/Silvio-Br/gitlab-issue-manager/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
	Send(tea.Msg)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// languageSettingKey is the settings-table key holding the persisted UI language.
const languageSettingKey = "language"

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("glab-board", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		baseURL    string
		token      string
		projectID  int
		bindAddr   string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("GLB_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&baseURL, "base-url", "", "GitLab base URL (https://gitlab.example.com)")
	fs.StringVar(&token, "token", "", "GitLab personal access token")
	fs.IntVar(&projectID, "project", 0, "GitLab project id")
	fs.StringVar(&bindAddr, "bind", "", "mcp server bind address")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (glab-board-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "glab-board %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: "glab-board",
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		_, _ = fmt.Fprintf(stdout, "log: %s\n", paths.LogPath)
		return nil
	case "", "auth", "mcp", "export":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("GLB_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbOverridden := strings.TrimSpace(dbPath) != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("GLB_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, devMode, cfg.Logging, paths.LogPath)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "" {
		// Keep TUI rendering clean: runtime logs stay in the file sink while
		// the board is active.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "dev_mode", devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)

	sealer, err := secret.NewSealer()
	if err != nil {
		logger.Error("token sealer init failed", "err", err)
		return fmt.Errorf("init token sealer: %w", err)
	}
	store, err := sqlite.Open(cfg.Database.Path, sealer)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite store ready", "db_path", cfg.Database.Path)

	if command == "auth" {
		return runAuth(ctx, store, fs.Args()[1:], stdout)
	}

	creds, err := resolveCredentials(ctx, store, cfg.GitLab, baseURL, token)
	if err != nil {
		return err
	}
	logger.Info("gitlab credentials resolved", "base_url", creds.BaseURL)

	client, err := gitlab.New(gitlab.Config{BaseURL: creds.BaseURL, Token: creds.Token})
	if err != nil {
		logger.Error("gitlab client init failed", "base_url", creds.BaseURL, "err", err)
		return fmt.Errorf("init gitlab client: %w", err)
	}

	columns, err := cfg.ColumnSet()
	if err != nil {
		return fmt.Errorf("build column set: %w", err)
	}
	resolvedProject, err := resolveProjectID(ctx, store, cfg.GitLab, projectID)
	if err != nil {
		return err
	}
	logger.Info("project resolved", "project_id", resolvedProject)

	// The notifier target is bound after the TUI program exists; commands
	// other than tui drop notifications.
	var prog program
	notifier := app.NotifierFunc(func(note app.Notification) {
		if prog != nil {
			prog.Send(tui.Notify(note))
		}
	})
	svc := app.NewService(client, notifier, columns, app.ServiceConfig{
		ProjectID: resolvedProject,
		IDGen:     uuid.NewString,
	})

	switch command {
	case "mcp":
		if bindAddr == "" {
			bindAddr = strings.TrimSpace(os.Getenv("GLB_BIND"))
		}
		logger.Info("command flow start", "command", "mcp", "bind", bindAddr)
		if err := server.Run(ctx, server.Config{
			HTTPBind:      bindAddr,
			ServerVersion: version,
		}, svc); err != nil {
			logger.Error("command flow failed", "command", "mcp", "err", err)
			return fmt.Errorf("run mcp server: %w", err)
		}
		return nil
	case "export":
		logger.Info("command flow start", "command", "export")
		if err := runExport(ctx, svc, stdout); err != nil {
			logger.Error("command flow failed", "command", "export", "err", err)
			return fmt.Errorf("run export command: %w", err)
		}
		logger.Info("command flow complete", "command", "export")
		return nil
	}

	lang := cfg.UI.Language
	if stored, settingErr := store.Setting(ctx, languageSettingKey, lang); settingErr == nil {
		lang = stored
	}
	m := tui.NewModel(
		svc,
		tui.WithLanguage(i18n.Parse(lang)),
		tui.WithColumnWindow(domain.DefaultColumnWindow),
		tui.WithLanguageSaver(func(code string) error {
			logger.Info("language update requested", "language", code)
			return store.SetSetting(context.Background(), languageSettingKey, code)
		}),
	)

	logger.Info("starting tui program loop")
	prog = programFactory(m)
	if _, err := prog.Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rememberProject(ctx, store, svc, logger)
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// resolveCredentials picks the GitLab endpoint and token. Flags beat
// environment, environment beats config, config beats the credential store.
func resolveCredentials(ctx context.Context, store *sqlite.Store, cfg config.GitLabConfig, flagBaseURL, flagToken string) (sqlite.Credentials, error) {
	creds := sqlite.Credentials{
		BaseURL: strings.TrimSpace(flagBaseURL),
		Token:   strings.TrimSpace(flagToken),
	}
	if creds.BaseURL == "" {
		creds.BaseURL = strings.TrimSpace(os.Getenv("GLB_BASE_URL"))
	}
	if creds.Token == "" {
		creds.Token = strings.TrimSpace(os.Getenv("GLB_TOKEN"))
	}
	if creds.BaseURL == "" {
		creds.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}
	if creds.Token == "" {
		creds.Token = strings.TrimSpace(cfg.Token)
	}
	if creds.BaseURL != "" && creds.Token != "" {
		return creds, nil
	}

	stored, err := store.Credentials(ctx)
	if err != nil {
		if errors.Is(err, sqlite.ErrNoCredentials) {
			return sqlite.Credentials{}, errors.New("no GitLab credentials: run 'glab-board auth -base-url URL -token TOKEN' or set GLB_BASE_URL/GLB_TOKEN")
		}
		return sqlite.Credentials{}, fmt.Errorf("read stored credentials: %w", err)
	}
	if creds.BaseURL == "" {
		creds.BaseURL = stored.BaseURL
	}
	if creds.Token == "" {
		creds.Token = stored.Token
	}
	if creds.BaseURL == "" || creds.Token == "" {
		return sqlite.Credentials{}, errors.New("incomplete GitLab credentials: base url and token are both required")
	}
	return creds, nil
}

// resolveProjectID picks the project: flag, environment, config, then the
// most recently stored project.
func resolveProjectID(ctx context.Context, store *sqlite.Store, cfg config.GitLabConfig, flagProject int) (int, error) {
	if flagProject > 0 {
		return flagProject, nil
	}
	if raw := strings.TrimSpace(os.Getenv("GLB_PROJECT_ID")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid GLB_PROJECT_ID %q", raw)
		}
		return id, nil
	}
	if cfg.ProjectID > 0 {
		return cfg.ProjectID, nil
	}
	projects, err := store.ListProjects(ctx)
	if err == nil && len(projects) > 0 {
		return projects[len(projects)-1].ID, nil
	}
	return 0, errors.New("no project selected: pass -project, set GLB_PROJECT_ID, or set gitlab.project_id in the config")
}

// rememberProject persists the active project for the next session.
func rememberProject(ctx context.Context, store *sqlite.Store, svc *app.Service, logger *runtimeLogger) {
	if !svc.Loaded() {
		return
	}
	project := svc.Project()
	if project.ID == 0 {
		return
	}
	if err := store.AddProject(ctx, project); err != nil {
		logger.Warn("persist project failed", "project_id", project.ID, "err", err)
	}
}

// runAuth saves, clears, or shows the stored GitLab credentials.
func runAuth(ctx context.Context, store *sqlite.Store, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("glab-board auth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		baseURL string
		token   string
		clear   bool
	)
	fs.StringVar(&baseURL, "base-url", "", "GitLab base URL")
	fs.StringVar(&token, "token", "", "GitLab personal access token")
	fs.BoolVar(&clear, "clear", false, "remove stored credentials")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse auth flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected auth arguments: %v", fs.Args())
	}

	if clear {
		if err := store.ClearCredentials(ctx); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, "credentials cleared")
		return nil
	}
	if baseURL != "" || token != "" {
		if baseURL == "" || token == "" {
			return errors.New("auth requires both -base-url and -token")
		}
		if err := store.SaveCredentials(ctx, sqlite.Credentials{BaseURL: baseURL, Token: token}); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, "credentials saved")
		return nil
	}

	creds, err := store.Credentials(ctx)
	if err != nil {
		if errors.Is(err, sqlite.ErrNoCredentials) {
			_, _ = fmt.Fprintln(stdout, "no stored credentials")
			return nil
		}
		return fmt.Errorf("read stored credentials: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "base_url: %s\ntoken: %s\n", creds.BaseURL, maskToken(creds.Token))
	return nil
}

// boardSnapshot is the export JSON shape: one entry per column with the
// classified issues.
type boardSnapshot struct {
	Project string         `json:"project"`
	Columns []columnExport `json:"columns"`
}

type columnExport struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Total  int            `json:"total"`
	Issues []domain.Issue `json:"issues"`
}

// runExport writes the full classified board as JSON to stdout.
func runExport(ctx context.Context, svc *app.Service, stdout io.Writer) error {
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	// Open every column window wide enough to hold the whole issue list.
	windows := map[string]int{}
	issueCount := len(svc.Issues())
	for _, column := range svc.Columns().Columns() {
		windows[column.ID] = issueCount
	}
	board := svc.Board(domain.Filters{Assignee: domain.AssigneeAll, State: domain.StateFilterAll}, windows)

	snap := boardSnapshot{Project: svc.Project().PathWithNamespace}
	for _, column := range board {
		snap.Columns = append(snap.Columns, columnExport{
			ID:     column.Definition.ID,
			Name:   column.Definition.Name,
			Total:  column.Total,
			Issues: column.Issues,
		})
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')
	if _, err := stdout.Write(encoded); err != nil {
		return fmt.Errorf("write snapshot to stdout: %w", err)
	}
	return nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// maskToken hides all but the last four characters of a stored token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// runtimeLogger fans log events to a styled console sink and a logfmt file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
}

// newRuntimeLogger configures runtime log sinks from CLI/config state. The
// file sink also becomes the target for package-level adapter logging so the
// TUI surface stays clean.
func newRuntimeLogger(stderr io.Writer, devMode bool, cfg config.LoggingConfig, defaultLogPath string) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          "glab-board",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}

	logPath := strings.TrimSpace(cfg.File)
	if logPath == "" && devMode {
		logPath = defaultLogPath
	}
	if logPath == "" {
		charmLog.SetLevel(level)
		return logger, nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          "glab-board",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close

	// Package-level logging from the adapters follows the file sink.
	charmLog.SetOutput(logFile)
	charmLog.SetLevel(level)
	charmLog.SetFormatter(charmLog.LogfmtFormatter)
	return logger, nil
}

// Close closes the file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive runtime output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Debug(msg, keyvals...)
	}
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Info(msg, keyvals...)
	}
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Warn(msg, keyvals...)
	}
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Error(msg, keyvals...)
	}
}
