package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	analyticsdto "studytrack/internal/modules/analytics/dto"
	sessiondto "studytrack/internal/modules/session/dto"
	settingsdto "studytrack/internal/modules/settings/dto"
)

const DefaultDebounce = 500 * time.Millisecond

type Syncer interface {
	Sync(ctx context.Context) (sessiondto.SyncOutput, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (settingsdto.Settings, error)
}

type Progress interface {
	Streak(ctx context.Context) (analyticsdto.StreakOutput, error)
	Goals(ctx context.Context) (analyticsdto.GoalsOutput, error)
}

type Options struct {
	// WatchDir is the extension backend directory. Empty disables watching.
	WatchDir    string
	Interval    time.Duration
	Debounce    time.Duration
	Location    *time.Location
	MetricsAddr string
	Metrics     http.Handler
	// Notify receives reminder text. Nil only logs.
	Notify func(string)
}

type Daemon struct {
	sessions Syncer
	settings SettingsReader
	progress Progress
	opts     Options
	logger   *zap.Logger
	mu       sync.Mutex
}

func New(sessions Syncer, settings SettingsReader, progress Progress, opts Options, logger *zap.Logger) *Daemon {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Daemon{sessions: sessions, settings: settings, progress: progress, opts: opts, logger: logger}
}

// Run blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.opts.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive")
	}
	scheduler := cron.New(cron.WithLocation(d.opts.Location))
	if _, err := scheduler.AddFunc("@every "+d.opts.Interval.String(), func() { d.SyncIfEnabled(ctx, "schedule") }); err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	settings, err := d.settings.Get(ctx)
	if err != nil {
		d.logger.Warn("settings unavailable, reminders disabled", zap.Error(err))
	} else {
		spec, err := ReminderSpec(settings.ReminderTime)
		if err != nil {
			return err
		}
		if _, err := scheduler.AddFunc(spec, func() { d.Remind(ctx) }); err != nil {
			return fmt.Errorf("schedule reminder: %w", err)
		}
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	errCh := make(chan error, 1)
	if d.opts.MetricsAddr != "" && d.opts.Metrics != nil {
		srv := &http.Server{Addr: d.opts.MetricsAddr, Handler: d.metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("serve metrics: %w", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}
	if d.opts.WatchDir != "" {
		watcher, err := d.watch()
		if err != nil {
			return err
		}
		defer watcher.Close()
		go d.watchLoop(ctx, watcher)
	}

	d.logger.Info("daemon started",
		zap.Duration("interval", d.opts.Interval),
		zap.String("watch_dir", d.opts.WatchDir),
		zap.String("metrics_addr", d.opts.MetricsAddr))
	d.SyncIfEnabled(ctx, "startup")

	select {
	case <-ctx.Done():
		d.logger.Info("daemon stopping")
		return nil
	case err := <-errCh:
		return err
	}
}

func (d *Daemon) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.opts.Metrics)
	return mux
}

func (d *Daemon) watch() (*fsnotify.Watcher, error) {
	if err := os.MkdirAll(d.opts.WatchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	if err := watcher.Add(d.opts.WatchDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", d.opts.WatchDir, err)
	}
	return watcher, nil
}

// watchLoop coalesces bursts of backend writes into one reconciliation.
func (d *Daemon) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(d.opts.Debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(d.opts.Debounce)
			}
		case <-fire:
			d.SyncIfEnabled(ctx, "watch")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// SyncIfEnabled reconciles the backends unless sync is switched off in settings.
// Runs are serialized.
func (d *Daemon) SyncIfEnabled(ctx context.Context, trigger string) bool {
	settings, err := d.settings.Get(ctx)
	if err == nil && !settings.SyncEnabled {
		d.logger.Debug("sync disabled, skipping", zap.String("trigger", trigger))
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := d.sessions.Sync(ctx)
	if err != nil {
		d.logger.Warn("sync failed", zap.String("trigger", trigger), zap.Error(err))
		return false
	}
	d.logger.Info("sync finished",
		zap.String("trigger", trigger),
		zap.Int("sessions", out.Sessions),
		zap.Bool("changed", out.Changed),
		zap.Strings("written", out.Written),
		zap.Strings("stale", out.Stale),
		zap.Strings("unavailable", out.Unavailable))
	return true
}

// Remind reports a nudge when notifications are on and nothing was studied today.
func (d *Daemon) Remind(ctx context.Context) (string, bool) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		d.logger.Warn("reminder skipped", zap.Error(err))
		return "", false
	}
	if !settings.Notifications {
		return "", false
	}
	goals, err := d.progress.Goals(ctx)
	if err != nil {
		d.logger.Warn("reminder skipped", zap.Error(err))
		return "", false
	}
	if goals.TodayMinutes > 0 {
		return "", false
	}
	streak, err := d.progress.Streak(ctx)
	if err != nil {
		d.logger.Warn("reminder skipped", zap.Error(err))
		return "", false
	}
	msg := fmt.Sprintf("Time to study: %d minute daily goal", goals.DailyGoal)
	if streak.Current > 0 {
		msg = fmt.Sprintf("Keep your %d day streak alive: %d minute daily goal", streak.Current, goals.DailyGoal)
	}
	d.logger.Info("study reminder", zap.Int("streak", streak.Current), zap.Int("daily_goal", goals.DailyGoal))
	if d.opts.Notify != nil {
		d.opts.Notify(msg)
	}
	return msg, true
}

// ReminderSpec turns an HH:MM time into a daily cron spec.
func ReminderSpec(hhmm string) (string, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("reminder time %q is not HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("reminder time %q has an invalid hour", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("reminder time %q has an invalid minute", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
