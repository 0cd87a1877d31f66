package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kyleseneker/rating-prompt/internal/conditions"
	"github.com/kyleseneker/rating-prompt/internal/config"
	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/navigator"
	"github.com/kyleseneker/rating-prompt/internal/prompt"
	"github.com/kyleseneker/rating-prompt/internal/tracker"
)

// host wires a controller the way an application would.
type host struct {
	cfg       *config.Config
	logger    logging.Logger
	usage     *tracker.UsageTracker
	ctrl      *prompt.Controller
	navigator prompt.Navigator
}

// mustNewHost loads config and builds the host, exiting on failure.
func mustNewHost(configPath string, dryRunFlag bool) *host {
	cfg, err := config.LoadConfig(configPath, dryRunFlag)
	if err != nil {
		// Use standard log here since logger isn't initialized yet
		log.Fatalf("Error loading configuration: %v", err)
	}

	logging.InitializeLogger(cfg)
	logger := logging.Get()

	h, err := newHost(cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("Error initializing rating prompt", "error", err)
		os.Exit(1)
	}
	return h
}

func newHost(cfg *config.Config, logger logging.Logger, out io.Writer) (*host, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("error initializing store (type %s): %w", cfg.StoreType, err)
	}
	usage := tracker.NewUsageTracker(store, logger)

	var conds []conditions.Condition
	if cfg.Schedule.Enabled {
		conds = append(conds, conditions.NewScheduleWindow(cfg.Schedule, logger))
	}

	ctrl, err := prompt.NewController(promptConfig(cfg), usage, logger,
		prompt.WithConditions(conds...),
		prompt.WithCallback(printingCallback(out)),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	var nav prompt.Navigator
	if cfg.DryRun {
		nav = navigator.NewLog(logger)
	} else {
		nav = navigator.NewBrowser(cfg.OpenSchemes, logger)
	}
	ctrl.Attach(nil, nav)

	logger.Debug("Rating prompt initialized", "store_type", cfg.StoreType, "dry_run", cfg.DryRun, "controller_id", ctrl.ID())
	return &host{cfg: cfg, logger: logger, usage: usage, ctrl: ctrl, navigator: nav}, nil
}

func (h *host) Close() {
	if err := h.usage.Close(); err != nil {
		h.logger.Error("Error closing store", "error", err)
	}
}

func openStore(cfg *config.Config) (tracker.Store, error) {
	switch cfg.StoreType {
	case "memory":
		return tracker.NewMemoryStore(), nil
	case "file":
		return tracker.NewFileStore(cfg.StoreDir, cfg.StoreNamespace)
	case "sqlite":
		return tracker.NewSqlStore(tracker.DialectSQLite, cfg.StoreDSN, cfg.StoreNamespace)
	case "sql":
		return tracker.NewSqlStore(tracker.DialectPostgres, cfg.StoreDSN, cfg.StoreNamespace)
	default:
		return nil, fmt.Errorf("invalid store_type %q", cfg.StoreType)
	}
}

func promptConfig(cfg *config.Config) prompt.Config {
	return prompt.Config{
		MinimumLaunchCount: cfg.MinimumLaunchCount,
		MinimumDaysAfter:   cfg.MinimumDaysAfter,
		UseOrCombinator:    cfg.UseOrCombinator,
		Cancelable:         cfg.Cancelable,
		Style:              cfg.Style,
		PackageID:          cfg.PackageID,
		Texts: prompt.Texts{
			Title:       cfg.Title,
			Message:     cfg.Message,
			RateNow:     cfg.RateNowLabel,
			RemindLater: cfg.RemindLaterLabel,
			NeverRemind: cfg.NeverRemindLabel,
		},
	}
}

func printingCallback(out io.Writer) prompt.Callback {
	return prompt.CallbackFuncs{
		OnRemindLater: func() { fmt.Fprintln(out, "Remind later clicked") },
		OnRateNow:     func() { fmt.Fprintln(out, "Rate now clicked") },
		OnNeverRemind: func() { fmt.Fprintln(out, "Remind never again clicked") },
		OnShown:       func() { fmt.Fprintln(out, "Dialog was shown") },
	}
}
