package bootstrap

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studytrack/internal/daemon"
	analyticsinadapter "studytrack/internal/modules/analytics/adapter/in"
	analyticsoutadapter "studytrack/internal/modules/analytics/adapter/out"
	analyticsservice "studytrack/internal/modules/analytics/service"
	analyticsusecase "studytrack/internal/modules/analytics/usecase"
	sessioninadapter "studytrack/internal/modules/session/adapter/in"
	sessionoutadapter "studytrack/internal/modules/session/adapter/out"
	sessiondomain "studytrack/internal/modules/session/domain"
	sessionout "studytrack/internal/modules/session/port/out"
	sessionservice "studytrack/internal/modules/session/service"
	sessionusecase "studytrack/internal/modules/session/usecase"
	settingsinadapter "studytrack/internal/modules/settings/adapter/in"
	settingsout "studytrack/internal/modules/settings/port/out"
	settingsservice "studytrack/internal/modules/settings/service"
	settingsusecase "studytrack/internal/modules/settings/usecase"
	transferinadapter "studytrack/internal/modules/transfer/adapter/in"
	transferoutadapter "studytrack/internal/modules/transfer/adapter/out"
	transferservice "studytrack/internal/modules/transfer/service"
	transferusecase "studytrack/internal/modules/transfer/usecase"
	"studytrack/internal/platform/clock"
	"studytrack/internal/platform/config"
	"studytrack/internal/platform/id"
	"studytrack/internal/platform/metrics"
	uiapp "studytrack/internal/ui/app"
)

type App struct {
	Config       config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	SessionCLI   sessioninadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler
	SettingsCLI  settingsinadapter.CLIHandler
	TransferCLI  transferinadapter.CLIHandler
	Daemon       func(opts daemon.Options) *daemon.Daemon

	closers []func() error
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{Location: loc}
	ids := id.NewMonotonic(clk)
	m := metrics.New()
	app := &App{Config: cfg, Logger: logger, Metrics: m}

	var extension, page *sessionservice.Repository
	var extStore, pageStore sessionout.KVStore
	if cfg.Backends.Extension.Enabled {
		extStore = sessionoutadapter.NewBreakerKVStore(
			string(sessiondomain.BackendExtension),
			sessionoutadapter.NewFileKVStore(cfg.Backends.Extension.Dir),
			cfg.Breaker.Failures, cfg.Breaker.Timeout, logger, m)
		extension = sessionservice.NewRepository(sessiondomain.BackendExtension, extStore, clk, cfg.Storage.MaxSessions)
	}
	if cfg.Backends.Page.Enabled {
		sqliteStore, err := sessionoutadapter.NewSQLiteKVStore(cfg.Backends.Page.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open page store: %w", err)
		}
		app.closers = append(app.closers, sqliteStore.Close)
		pageStore = sessionoutadapter.NewBreakerKVStore(
			string(sessiondomain.BackendPage), sqliteStore,
			cfg.Breaker.Failures, cfg.Breaker.Timeout, logger, m)
		page = sessionservice.NewRepository(sessiondomain.BackendPage, pageStore, clk, cfg.Storage.MaxSessions)
	}

	primary, primaryStore := extension, extStore
	if cfg.Surface == config.SurfacePage {
		primary, primaryStore = page, pageStore
	}
	if primary == nil {
		_ = app.Close()
		return nil, fmt.Errorf("surface %q has no enabled backend", cfg.Surface)
	}

	reconciler := sessionservice.NewReconciler(extension, page, logger, m)
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, primary, reconciler, logger, m),
		clk,
	)

	var settingsStores []settingsout.NamedStore
	if extStore != nil {
		settingsStores = append(settingsStores, settingsout.NamedStore{Name: string(sessiondomain.BackendExtension), Store: extStore})
	}
	if pageStore != nil {
		settingsStores = append(settingsStores, settingsout.NamedStore{Name: string(sessiondomain.BackendPage), Store: pageStore})
	}
	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(settingsStores, clk, logger))

	analyticsUC := analyticsusecase.NewInteractor(
		analyticsservice.NewAnalyticsService(clk, cfg.WeekStart()),
		analyticsoutadapter.NewSessionUsecaseSource(sessionUC),
		analyticsoutadapter.NewKVStreakCache(primaryStore),
		analyticsoutadapter.NewSettingsGoalSource(settingsUC),
		logger,
	)

	transferUC := transferusecase.NewInteractor(
		transferservice.NewTransferService(clk, ids, cfg.Export.Prefix),
		transferoutadapter.NewSessionUsecaseStore(sessionUC),
		logger,
	)

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.AnalyticsCLI = analyticsinadapter.NewCLIHandler(analyticsUC)
	app.SettingsCLI = settingsinadapter.NewCLIHandler(settingsUC)
	app.TransferCLI = transferinadapter.NewCLIHandler(transferUC)
	app.Daemon = func(opts daemon.Options) *daemon.Daemon {
		if cfg.Backends.Extension.Enabled && opts.WatchDir == "" {
			opts.WatchDir = cfg.Backends.Extension.Dir
		}
		if opts.Interval <= 0 {
			opts.Interval = cfg.Sync.Interval
		}
		if opts.Location == nil {
			opts.Location = loc
		}
		if opts.Metrics == nil {
			opts.Metrics = m.Handler()
		}
		return daemon.New(sessionUC, settingsUC, analyticsUC, opts, logger)
	}
	return app, nil
}

// Close releases backend handles and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.AnalyticsCLI, app.SettingsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
