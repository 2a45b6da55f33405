package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"studytrack/internal/bootstrap"
	"studytrack/internal/daemon"
	sessiondto "studytrack/internal/modules/session/dto"
	settingsinadapter "studytrack/internal/modules/settings/adapter/in"
	"studytrack/internal/platform/config"
	"studytrack/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOptions struct {
	dataDir    string
	configPath string
	logLevel   string
	asJSON     bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "studytrack",
		Short:         "GMAT study session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "directory holding backends and config.yaml")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults to <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newStreakCmd(opts))
	root.AddCommand(newWeeklyCmd(opts))
	root.AddCommand(newInsightsCmd(opts))
	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newGoalsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newClearCmd(opts))
	root.AddCommand(newSyncCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newDaemonCmd(opts))
	return root
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "studytrack")
	}
	return ".studytrack"
}

func loadApp(opts *globalOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.dataDir, opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if strings.TrimSpace(opts.logLevel) != "" {
		level = opts.logLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSessionCmd(opts *globalOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Log and list study sessions"}

	var input sessiondto.AddSessionInput
	var score int
	add := &cobra.Command{
		Use:   "add --subject <subject>",
		Short: "Log a study session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input.Subject) == "" {
				return fmt.Errorf("--subject is required")
			}
			if cmd.Flags().Changed("score") {
				input.Score = &score
			}
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			rec, err := app.SessionCLI.Add(context.Background(), input)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session logged: %s %dmin at=%s id=%d\n", rec.Subject, rec.Duration, rec.Date.Format("2006-01-02T15:04"), rec.Timestamp)
			return nil
		},
	}
	add.Flags().StringVar(&input.Subject, "subject", "", "subject, e.g. Quantitative or \"Integrated Reasoning\"")
	add.Flags().IntVar(&input.Duration, "duration", 0, "minutes (defaults to the subject's usual length)")
	add.Flags().StringVar(&input.Date, "date", "", "when it happened: RFC 3339 or YYYY-MM-DD[ HH:MM] (defaults to now)")
	add.Flags().IntVar(&score, "score", 0, "optional score")
	add.Flags().StringVar(&input.Topic, "topic", "", "topic")
	add.Flags().StringVar(&input.Notes, "notes", "", "notes")
	add.Flags().StringVar(&input.Difficulty, "difficulty", "", "difficulty")
	add.Flags().StringSliceVar(&input.Tags, "tags", nil, "tags")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			sessions, err := app.SessionCLI.List(context.Background(), limit)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), sessions)
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				score := "-"
				if s.Score != nil {
					score = fmt.Sprint(*s.Score)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\tscore=%s\t%s\n", s.Date.Format("2006-01-02 15:04"), s.Subject, s.Duration, score, s.Topic)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "show at most this many sessions")

	quick := &cobra.Command{
		Use:   "quick <preset>",
		Short: "Log a preset session (run without a preset to list them)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			if len(args) == 0 {
				for _, p := range app.SessionCLI.Presets() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Key, p.Label)
				}
				return nil
			}
			rec, err := app.SessionCLI.Quick(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session logged: %s %dmin\n", rec.Subject, rec.Duration)
			return nil
		},
	}

	session.AddCommand(add, list, quick)
	return session
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and the subject breakdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			stats, err := app.AnalyticsCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sessions=%d minutes=%d hours=%.1f average=%.0fmin\n", stats.TotalSessions, stats.TotalMinutes, stats.TotalHours, stats.AverageSessionLength)
			for _, s := range stats.Subjects {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dmin\n", s.Subject, s.Minutes)
			}
			return nil
		},
	}
}

func newStreakCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest study streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			streak, err := app.AnalyticsCLI.Streak(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), streak)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current=%d longest=%d study_days=%d last=%s\n", streak.Current, streak.Longest, streak.TotalStudyDays, streak.LastStudyDate)
			return nil
		},
	}
}

func newWeeklyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "weekly",
		Short: "Show minutes per week for the last eight weeks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			weeks, err := app.AnalyticsCLI.Weekly(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), weeks)
			}
			if len(weeks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, w := range weeks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tsessions=%d\thours=%.1f\t%s\n", w.WeekStart, w.Sessions, w.Hours, strings.Join(w.Subjects, ", "))
			}
			return nil
		},
	}
}

func newInsightsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show insights about recent study habits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			insights, err := app.AnalyticsCLI.Insights(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), insights)
			}
			if len(insights) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no insights yet")
				return nil
			}
			for _, in := range insights {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", in.Type, in.Title, in.Description)
				if in.Action != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  → %s\n", in.Action)
				}
			}
			return nil
		},
	}
}

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show study recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			recs, err := app.AnalyticsCLI.Recommendations(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			for i, r := range recs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s: %s\n", i+1, r.Title, r.Description)
			}
			return nil
		},
	}
}

func newGoalsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "Show daily and weekly goal progress and milestones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			goals, err := app.AnalyticsCLI.Goals(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), goals)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "today=%d/%dmin (%d%%) met=%t\n", goals.TodayMinutes, goals.DailyGoal, goals.DailyPercent, goals.DailyMet)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "week=%d/%dmin (%d%%) met=%t\n", goals.WeekMinutes, goals.WeeklyGoal, goals.WeeklyPercent, goals.WeeklyMet)
			if len(goals.Achieved) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "achieved: %s\n", strings.Join(goals.Achieved, ", "))
			}
			if goals.NextMilestone != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next: %s in %d sessions\n", goals.NextMilestone.Title, goals.SessionsToNext)
			}
			return nil
		},
	}
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var format, output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export every session to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			path, err := app.TransferCLI.Export(context.Background(), format, output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if path != "-" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
			}
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "json", "json|csv|markdown")
	export.Flags().StringVarP(&output, "output", "o", "", "file or directory to write (\"-\" for stdout)")
	return export
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import sessions from a JSON or Markdown export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.TransferCLI.Import(context.Background(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported=%d total=%d\n", out.Imported, out.Total)
			return nil
		},
	}
}

func newClearCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear --yes",
		Short: "Delete every session on every backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Clear(context.Background())
			if len(out.Cleared) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared: %s\n", strings.Join(out.Cleared, ", "))
			}
			return err
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return clearCmd
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the extension and page backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Sync(context.Background())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sessions=%d changed=%t written=%s stale=%s unavailable=%s\n",
				out.Sessions, out.Changed, joinOrDash(out.Written), joinOrDash(out.Stale), joinOrDash(out.Unavailable))
			return nil
		},
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}

func newSettingsCmd(opts *globalOptions) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show or change settings"}
	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.SettingsCLI.Show(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	})
	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (" + strings.Join(settingsinadapter.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.SettingsCLI.Set(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	})
	return settings
}

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newDaemonCmd(opts *globalOptions) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep backends reconciled and send study reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			out := cmd.OutOrStdout()
			return app.Daemon(daemon.Options{
				MetricsAddr: metricsAddr,
				Notify:      func(msg string) { _, _ = fmt.Fprintln(out, msg) },
			}).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}
