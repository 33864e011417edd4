package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/emtquiz/internal/explain"
	"github.com/abhisek/emtquiz/internal/history"
	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/questiongen"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/store"
)

// env is the storage and logging a command runs against.
type env struct {
	db      *store.Store // nil with --ephemeral
	kv      store.KV
	dbPath  string
	logger  *slog.Logger
	logFile *os.File
}

// logTarget selects where an env's logger writes.
type logTarget int

const (
	logStderr logTarget = iota
	// logFile writes next to the database so the TUI's alternate screen
	// stays clean.
	logFile
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openEnv opens the database (or an in-memory KV with --ephemeral) and sets
// up logging.
func openEnv(cmd *cobra.Command, target logTarget) (*env, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	e := &env{}
	if ephemeral {
		e.kv = store.NewMemoryKV()
	} else {
		p, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		db, err := store.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		e.db, e.kv, e.dbPath = db, db.KV(), p
	}

	var w io.Writer = os.Stderr
	if target == logFile {
		w = io.Discard
		if p := logPath(e.dbPath, verbose); p != "" {
			f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				e.Close()
				return nil, fmt.Errorf("open log file: %w", err)
			}
			e.logFile, w = f, f
		}
	}
	e.logger = newLogger(w, verbose)
	return e, nil
}

// logPath is the TUI log file: next to the database, or in the temp dir
// for an ephemeral run with --verbose. Empty means logging is discarded.
func logPath(dbPath string, verbose bool) string {
	switch {
	case dbPath != "":
		return filepath.Join(filepath.Dir(dbPath), "emtquiz.log")
	case verbose:
		return filepath.Join(os.TempDir(), "emtquiz-ephemeral.log")
	}
	return ""
}

// requireDB fails for commands that inspect on-disk data when --ephemeral
// is set.
func (e *env) requireDB() error {
	if e.db == nil {
		return errors.New("this command reads the database and cannot run with --ephemeral")
	}
	return nil
}

// events returns the LLM event repository, or nil when there is no database.
func (e *env) events() store.EventRepo {
	if e.db == nil {
		return nil
	}
	return e.db.EventRepo()
}

func (e *env) Close() error {
	var errs []error
	if e.db != nil {
		errs = append(errs, e.db.Close())
	}
	if e.logFile != nil {
		errs = append(errs, e.logFile.Close())
	}
	return errors.Join(errs...)
}

// loadTopics returns the topic store with custom topics merged in. Load
// failures are logged by the store and leave the built-ins available.
func (e *env) loadTopics(ctx context.Context) *knowledge.Store {
	topics := knowledge.New(e.kv, e.logger)
	_ = topics.Load(ctx)
	return topics
}

// loadHistory returns the history store. Load failures are logged by the
// store and leave the history empty.
func (e *env) loadHistory(ctx context.Context) *history.Store {
	hist := history.New(e.kv, e.logger)
	if n, err := hist.Load(ctx); err == nil && n > 0 {
		e.logger.Info("migrated legacy history records", "count", n)
	}
	return hist
}

// provider builds the decorated LLM provider from the environment. Without
// configuration it returns a provider that fails every call, so offline
// features keep working.
func (e *env) provider(ctx context.Context) llm.Provider {
	var repo store.EventRepo
	if e.db != nil {
		repo = e.db.EventRepo()
	}
	p, err := llm.NewProviderFromEnv(ctx, repo, e.logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation and explanations will be unavailable.")
		return unavailableProvider{err: err}
	}
	return p
}

// deps wires the services the TUI and the history commands share.
func (e *env) deps(ctx context.Context) *screen.Deps {
	topics := e.loadTopics(ctx)
	hist := e.loadHistory(ctx)
	provider := e.provider(ctx)

	gen := questiongen.New(provider, topics, questiongen.DefaultConfig())
	return &screen.Deps{
		Session:   session.New(gen, hist, topics, e.logger),
		Topics:    topics,
		History:   hist,
		Explainer: explain.NewService(provider, topics, explain.DefaultConfig(), e.logger),
		Tracker:   explain.NewTracker(),
		Logger:    e.logger,
	}
}

type unavailableProvider struct{ err error }

func (p unavailableProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	return nil, &llm.ErrProviderUnavailable{Err: p.err}
}

func (p unavailableProvider) ModelID() string { return "none" }
