package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/api"
	"github.com/mmcdole/shelf/internal/borrowing"
	"github.com/mmcdole/shelf/internal/cart"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/config"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/log"
	"github.com/mmcdole/shelf/internal/profile"
	"github.com/mmcdole/shelf/internal/session"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// app holds the services for one process.
// Nothing here is global: the TUI and each subcommand build their own.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	store   *store.SessionStore
	client  *api.Client
	session *session.Service
	cart    *cart.Cart
	tracker *activity.Tracker

	catalogCmds   *catalog.Commands
	catalogQ      *catalog.Queries
	borrowingCmds *borrowing.Commands
	borrowingQ    *borrowing.Queries
	profiles      *profile.Service
}

// loadConfig reads config and sets up the file logger
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	styles.ApplyTheme(cfg.UI.Theme)

	logger.Info("starting shelf", "version", Version)
	return cfg, logger, nil
}

// newApp wires the services; notices go to notifier
func newApp(cfg *config.Config, logger *slog.Logger, notifier domain.Notifier) (*app, error) {
	st, err := store.NewSessionStore(cfg.SessionDir(), cfg.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Timeout, logger)
	sess := session.NewService(client, st, logger)
	client.SetTokenSource(sess)

	c := cart.New()
	sess.OnEnd(c.Clear)

	tracker := activity.NewTracker(nil)
	reporter := activity.NewReporter(sess, notifier, logger)
	cache := catalog.NewCache()
	catalogCmds := catalog.NewCommands(client, cache, sess, tracker, reporter, logger)

	return &app{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		client:      client,
		session:     sess,
		cart:        c,
		tracker:     tracker,
		catalogCmds: catalogCmds,
		catalogQ:    catalog.NewQueries(cache),
		borrowingCmds: borrowing.NewCommands(borrowing.Deps{
			List:         client,
			Transactions: client,
			Cart:         c,
			Catalog:      catalogCmds,
			Gate:         sess,
			Tracker:      tracker,
			Reporter:     reporter,
			Logger:       logger,
		}),
		borrowingQ: borrowing.NewQueries(c),
		profiles:   profile.NewService(client, sess, tracker, reporter, logger),
	}, nil
}

// openApp loads config and wires services for a subcommand
func openApp() (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("no server configured; run `shelf setup` first")
	}
	return newApp(cfg, logger, printNotifier{})
}

func (a *app) services() tui.Services {
	return tui.Services{
		Session:        a.session,
		CatalogCmds:    a.catalogCmds,
		CatalogQueries: a.catalogQ,
		BorrowingCmds:  a.borrowingCmds,
		Borrowing:      a.borrowingQ,
		Cart:           a.cart,
		Profiles:       a.profiles,
		Tracker:        a.tracker,
	}
}

// requestContext bounds one CLI operation by the configured timeout
func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := a.cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

// Close releases the session store
func (a *app) Close() error {
	return a.store.Close()
}

// printNotifier writes notices to the terminal for subcommands
type printNotifier struct{}

func (printNotifier) Notify(n domain.Notice) {
	switch n.Level {
	case domain.NoticeError:
		fmt.Fprintln(os.Stderr, "✗ "+n.Message)
	case domain.NoticeSuccess:
		fmt.Println("✓ " + n.Message)
	default:
		fmt.Println(n.Message)
	}
}

// runSetupFlow asks for the server URL on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Shelf!")
	fmt.Println()

	for {
		input, err := promptLine("Library server URL (e.g., http://localhost:3000/api)", "")
		if err != nil {
			return err
		}
		url := strings.TrimRight(input, "/")
		if url == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			fmt.Println("Server URL must start with http:// or https://")
			continue
		}
		cfg.Server.URL = url
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run shelf again to start browsing.")
	return nil
}
