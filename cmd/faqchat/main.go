package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nhle/faqchat/internal/app"
	"github.com/nhle/faqchat/internal/credential"
	"github.com/nhle/faqchat/internal/faq"
	"github.com/nhle/faqchat/internal/history"
	"github.com/nhle/faqchat/internal/logging"
	"github.com/nhle/faqchat/internal/model"
	"github.com/nhle/faqchat/internal/session"
	"github.com/nhle/faqchat/internal/theme"
)

const version = "0.1.0"

// tokenEnv overrides the keyring token when set.
const tokenEnv = "FAQCHAT_TOKEN"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "faqchat: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) > 0 && args[0] == "history" {
		return runHistory(args[1:], out)
	}

	fs := pflag.NewFlagSet("faqchat", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the config file")
	fs.String("backend-url", "", "base URL of the FAQ service (default "+model.DefaultBackendURL+")")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.Bool("history", false, "record exchanges in the local history database")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: faqchat [flags]\n       faqchat history [-n N]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(out, "faqchat %s\n", version)
		return nil
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	token := loadToken(logger)
	client := faq.NewClient(cfg.BaseURL(), token, cfg.HTTP.Timeout, logger.Named("faq"))

	var recorder session.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	sess := session.New(
		client,
		recorder,
		logger.Named("session"),
		cfg.Status.ResetDelay,
		cfg.Suggestions.Limit,
	)

	logger.Info("starting",
		zap.String("version", version),
		zap.String("backend", client.BaseURL()),
		zap.Bool("history", cfg.History.Enabled),
	)

	root := app.New(app.Options{
		Session:    sess,
		Config:     cfg,
		ConfigPath: *configPath,
		Token:      token,
		Logger:     logger,
		Load:       newLoader(*configPath, fs, logger),
	})

	if _, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// newLoader returns the reload callback for the UI. Startup flags keep
// applying on refresh, except that once settings have been saved the
// --backend-url override is dropped so the saved URL takes effect.
func newLoader(configPath string, fs *pflag.FlagSet, logger *zap.Logger) app.Loader {
	var mu sync.Mutex
	flags := fs

	return func(settingsSaved bool) (*model.AppConfig, string, error) {
		mu.Lock()
		if settingsSaved {
			flags = withoutFlag(flags, "backend-url")
		}
		current := flags
		mu.Unlock()

		cfg, err := model.LoadConfig(configPath, current)
		if err != nil {
			return nil, "", err
		}
		return cfg, loadToken(logger), nil
	}
}

// withoutFlag returns a copy of fs that lacks the named flag.
func withoutFlag(fs *pflag.FlagSet, name string) *pflag.FlagSet {
	out := pflag.NewFlagSet(fs.Name(), pflag.ContinueOnError)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name != name {
			out.AddFlag(f)
		}
	})
	return out
}

// loadToken returns the backend token from the environment or the
// keyring. A keyring failure is logged and treated as no token.
func loadToken(logger *zap.Logger) string {
	if token := strings.TrimSpace(os.Getenv(tokenEnv)); token != "" {
		return token
	}
	token, err := credential.Get(credential.BackendTokenKey)
	if err != nil {
		logger.Warn("reading backend token from keyring failed", zap.Error(err))
		return ""
	}
	return token
}

// runHistory prints the most recent recorded exchanges.
func runHistory(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("faqchat history", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the config file")
	limit := fs.IntP("limit", "n", 20, "number of exchanges to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.History.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No history recorded. Enable it with --history or history.enabled in the config.")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	exchanges, err := store.Recent(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(exchanges) == 0 {
		fmt.Fprintln(out, "No exchanges recorded yet.")
		return nil
	}

	total, err := store.Count(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderHistory(exchanges))
	fmt.Fprintf(out, "Showing %d of %d exchanges.\n", len(exchanges), total)
	return nil
}

func renderHistory(exchanges []model.Exchange) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("ASKED", "OUTCOME", "QUESTION", "ANSWER")

	for _, ex := range exchanges {
		t.Row(
			ex.AskedAt.Local().Format(time.DateTime),
			ex.Outcome,
			truncate(ex.Question, 40),
			truncate(ex.Answer, 60),
		)
	}
	return t.Render()
}

// truncate shortens s to at most n runes on a single line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
