package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cradle/internal/bootstrap"
	"cradle/internal/platform/config"
	"cradle/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "cradle",
		Short:         "Local-first pregnancy and newborn tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "directory holding the database, config.yaml and .env")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newTodayCmd(&dataDir))
	root.AddCommand(newKickCmd(&dataDir))
	root.AddCommand(newContractionCmd(&dataDir))
	root.AddCommand(newFeedCmd(&dataDir))
	root.AddCommand(newBagCmd(&dataDir))
	root.AddCommand(newAuthCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newReminderCmd(&dataDir))
	root.AddCommand(newSyncCmd(&dataDir))
	root.AddCommand(newJournalCmd(&dataDir))
	root.AddCommand(newDaemonCmd(&dataDir))
	root.AddCommand(newClearCmd(&dataDir))
	return root
}

func loadApp(ctx context.Context, dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, log)
}

// withApp opens the app for one command and closes it afterwards.
func withApp(dataDir *string, fn func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := loadApp(ctx, *dataDir)
		if err != nil {
			return err
		}
		defer func() {
			app.Log.Sync()
			_ = app.Close()
		}()
		return fn(ctx, cmd.OutOrStdout(), app, args)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clockAt(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the cradle terminal UI",
		RunE: withApp(dataDir, func(ctx context.Context, _ io.Writer, app *bootstrap.App, _ []string) error {
			return bootstrap.RunTUI(ctx, app)
		}),
	}
}

func newTodayCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's counters",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			s, err := app.RecordsCLI.Today(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "date=%s kicks=%d feedings=%d bag=%d/%d\n", s.Date, s.TotalKicks, s.Feedings, s.BagChecked, s.BagTotal)
			if s.ActiveKickSession != nil {
				_, _ = fmt.Fprintf(out, "kick session running: %d kicks since %s\n", s.ActiveKickSession.KickCount, clockAt(s.ActiveKickSession.StartedAt))
			}
			if s.OpenFeeding != nil {
				_, _ = fmt.Fprintf(out, "feeding running: %s since %s\n", s.OpenFeeding.Type, clockAt(s.OpenFeeding.StartedAt))
			} else if s.LastFeeding != nil {
				_, _ = fmt.Fprintf(out, "last feeding: %s at %s\n", s.LastFeeding.Type, clockAt(s.LastFeeding.StartedAt))
			}
			if s.ContractionAlert {
				_, _ = fmt.Fprintln(out, "5-1-1 pattern reached today: contact your care provider")
			}
			return nil
		}),
	}
}

func newAuthCmd(dataDir *string) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Account commands"}

	var phone, password, nickname string

	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with phone and password",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.AuthCLI.Login(ctx, phone, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "signed in as %s (%s) invite_bound=%t\n", res.User.Phone, res.User.ID, res.User.InviteBound)
			return nil
		}),
	}
	login.Flags().StringVar(&phone, "phone", "", "phone number")
	login.Flags().StringVar(&password, "password", "", "password")

	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.AuthCLI.Register(ctx, phone, password, nickname)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "registered %s (%s)\n", res.User.Phone, res.User.ID)
			return nil
		}),
	}
	register.Flags().StringVar(&phone, "phone", "", "phone number")
	register.Flags().StringVar(&password, "password", "", "password")
	register.Flags().StringVar(&nickname, "nickname", "", "display name")

	auth.AddCommand(login, register)
	auth.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the session; records stay on this device",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			if err := app.AuthCLI.Logout(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "signed out")
			return nil
		}),
	})
	auth.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			who, err := app.AuthCLI.WhoAmI(ctx)
			if err != nil {
				return err
			}
			if !who.SignedIn {
				_, _ = fmt.Fprintln(out, "guest")
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s phone=%s nickname=%s invite_bound=%t\n", who.User.ID, who.User.Phone, who.User.Nickname, who.User.InviteBound)
			return nil
		}),
	})
	auth.AddCommand(&cobra.Command{
		Use:   "bind <invite-code>",
		Short: "Bind an invite code to the signed-in account",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			res, err := app.AuthCLI.Bind(ctx, args[0])
			if err != nil {
				return err
			}
			if res.AlreadyBound {
				_, _ = fmt.Fprintln(out, "invite already bound")
			} else {
				_, _ = fmt.Fprintln(out, "invite bound")
			}
			return nil
		}),
	})
	return auth
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "User and device settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings for the current user and this device",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			user, device, err := app.SettingsCLI.Show(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "goal_count=%d merge_window_minutes=%d due_date=%s\n", user.GoalCount, user.MergeWindowMinutes, user.DueDate)
			_, _ = fmt.Fprintf(out, "color_mode=%s motion_level=%s\n", device.ColorMode, device.MotionLevel)
			return nil
		}),
	})
	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set goal_count, merge_window_minutes or due_date",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			user, err := app.SettingsCLI.SetUser(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "goal_count=%d merge_window_minutes=%d due_date=%s\n", user.GoalCount, user.MergeWindowMinutes, user.DueDate)
			return nil
		}),
	})
	settings.AddCommand(&cobra.Command{
		Use:   "device <key> <value>",
		Short: "Set color_mode or motion_level for this device",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			device, err := app.SettingsCLI.SetDevice(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "color_mode=%s motion_level=%s\n", device.ColorMode, device.MotionLevel)
			return nil
		}),
	})
	settings.AddCommand(&cobra.Command{
		Use:   "tools",
		Short: "List tools by how often they are opened",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			tools, err := app.SettingsCLI.RankedTools(ctx)
			if err != nil {
				return err
			}
			if len(tools) == 0 {
				_, _ = fmt.Fprintln(out, "no tools opened yet")
				return nil
			}
			for _, t := range tools {
				_, _ = fmt.Fprintf(out, "%s\topens=%d\tlast=%s\n", t.ID, t.Count, clockAt(t.LastOpenedAt))
			}
			return nil
		}),
	})
	return settings
}

func newReminderCmd(dataDir *string) *cobra.Command {
	reminder := &cobra.Command{Use: "reminder", Short: "Reminder configuration and engine"}

	reminder.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Show reminder configuration",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			cfg, err := app.SettingsCLI.ReminderConfig(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, cfg)
		}),
	})
	reminder.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one reminder setting",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			cfg, err := app.SettingsCLI.SetReminder(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(out, cfg)
		}),
	})
	reminder.AddCommand(&cobra.Command{
		Use:   "tick",
		Short: "Evaluate reminders once",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			report, err := app.ReminderCLI.Tick(ctx)
			if err != nil {
				return err
			}
			if report.Skipped != "" {
				_, _ = fmt.Fprintf(out, "skipped: %s\n", report.Skipped)
				return nil
			}
			_, _ = fmt.Fprintf(out, "sent=%s quiet_hours=%t\n", strings.Join(report.Sent, ","), report.QuietHours)
			for _, s := range report.Suppressed {
				_, _ = fmt.Fprintf(out, "suppressed %s: %s\n", s.Category, s.Reason)
			}
			return nil
		}),
	})
	reminder.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show engine status",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			return printJSON(out, app.ReminderCLI.Status(ctx))
		}),
	})
	return reminder
}

func newSyncCmd(dataDir *string) *cobra.Command {
	sync := &cobra.Command{Use: "sync", Short: "Cloud backup commands"}

	sync.AddCommand(&cobra.Command{
		Use:   "bootstrap",
		Short: "Upload local records once after an invite is bound",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.SyncCLI.Bootstrap(ctx)
			if err != nil {
				return err
			}
			if !res.Uploaded {
				_, _ = fmt.Fprintf(out, "skipped: %s\n", res.Skipped)
				return nil
			}
			_, _ = fmt.Fprintf(out, "uploaded at %s: %d kick sessions, %d feedings, %d contraction sessions\n",
				res.UploadedAt, res.Counts.KickSessions, res.Counts.FeedingRecords, res.Counts.ContractionSessions)
			return nil
		}),
	})
	sync.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload a fresh snapshot",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.SyncCLI.Push(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "uploaded at %s\n", res.UploadedAt)
			return nil
		}),
	})
	sync.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Print the latest uploaded snapshot",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.SyncCLI.Pull(ctx)
			if err != nil {
				return err
			}
			if !res.Found {
				_, _ = fmt.Fprintln(out, "no snapshot uploaded yet")
				return nil
			}
			return printJSON(out, res.Snapshot)
		}),
	})
	return sync
}

func newJournalCmd(dataDir *string) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Daily markdown notes"}

	var date string
	day := func(app *bootstrap.App) (time.Time, error) {
		if date == "" {
			return time.Now().In(app.Config.Location), nil
		}
		t, err := time.ParseInLocation("2006-01-02", date, app.Config.Location)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}
		return t.Add(12 * time.Hour), nil
	}

	write := &cobra.Command{
		Use:   "write",
		Short: "Write or refresh the day's note",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			at, err := day(app)
			if err != nil {
				return err
			}
			res, err := app.JournalCLI.Write(ctx, at)
			if err != nil {
				return err
			}
			verb := "updated"
			if res.Created {
				verb = "created"
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", verb, res.Path)
			return nil
		}),
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Render the day's summary",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			at, err := day(app)
			if err != nil {
				return err
			}
			res, err := app.JournalCLI.Show(ctx, at)
			if err != nil {
				return err
			}
			if res.Rendered != "" {
				_, _ = fmt.Fprint(out, res.Rendered)
			} else {
				_, _ = fmt.Fprint(out, res.Markdown)
			}
			return nil
		}),
	}
	for _, c := range []*cobra.Command{write, show} {
		c.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default today)")
	}
	journal.AddCommand(write, show)
	return journal
}

func newDaemonCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder engine and status endpoint in the foreground",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			_, _ = fmt.Fprintf(out, "reminders every %s, status on %s\n", app.Config.ReminderInterval, app.Config.MetricsAddr)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.ReminderCLI.Run(ctx)
				return nil
			})
			g.Go(func() error {
				return app.StatusServer.Serve(ctx)
			})
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}),
	}
}

func newClearCmd(dataDir *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the current user on this device",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear records without --yes")
			}
			if err := app.RecordsCLI.Clear(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "records cleared")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
