package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"cradle/internal/bootstrap"
	recordsdto "cradle/internal/modules/records/dto"
)

func formatMs(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).Round(time.Second).String()
}

func printKick(out io.Writer, s recordsdto.KickSession) {
	state := "running"
	if s.EndedAt != nil {
		state = "ended " + clockAt(*s.EndedAt)
	}
	_, _ = fmt.Fprintf(out, "%s\t%s\tkicks=%d\tgoal=%t\t%s\n", s.ID, clockAt(s.StartedAt), s.KickCount, s.GoalReached, state)
}

func printFeeding(out io.Writer, r recordsdto.FeedingRecord) {
	line := fmt.Sprintf("%s\t%s\t%s", r.ID, clockAt(r.StartedAt), r.Type)
	if r.VolumeMl != nil {
		line += fmt.Sprintf("\t%dml", *r.VolumeMl)
	}
	if r.Duration != nil {
		line += "\t" + formatMs(r.Duration)
	} else if r.Open() {
		line += "\trunning"
	}
	if r.Notes != nil && *r.Notes != "" {
		line += "\t" + *r.Notes
	}
	_, _ = fmt.Fprintln(out, line)
}

func printContractionSession(out io.Writer, s recordsdto.ContractionSession) {
	_, _ = fmt.Fprintf(out, "%s\t%s\tcount=%d\tavg_duration=%s\tavg_interval=%s\talert=%t\n",
		s.ID, clockAt(s.StartedAt), s.ContractionCount, formatMs(s.AvgDuration), formatMs(s.AvgInterval), s.AlertTriggered)
}

func newKickCmd(dataDir *string) *cobra.Command {
	kick := &cobra.Command{Use: "kick", Short: "Fetal kick counting"}

	kick.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a kick session, or resume the running one",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.RecordsCLI.KickStart(ctx)
			if err != nil {
				return err
			}
			if res.Resumed {
				_, _ = fmt.Fprint(out, "resumed ")
			}
			printKick(out, res.Session)
			return nil
		}),
	})
	kick.AddCommand(&cobra.Command{
		Use:   "tap",
		Short: "Record a kick in the running session",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			s, err := app.RecordsCLI.KickTap(ctx)
			if err != nil {
				return err
			}
			printKick(out, s)
			return nil
		}),
	})
	kick.AddCommand(&cobra.Command{
		Use:   "undo",
		Short: "Remove the last tap",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			s, err := app.RecordsCLI.KickUndo(ctx)
			if err != nil {
				return err
			}
			printKick(out, s)
			return nil
		}),
	})
	kick.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the running session",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			s, err := app.RecordsCLI.KickEnd(ctx)
			if err != nil {
				return err
			}
			printKick(out, s)
			return nil
		}),
	})
	kick.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's kick total",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			t, err := app.RecordsCLI.KickToday(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "date=%s total=%d sessions=%d goal=%d merge_window=%dm\n", t.Date, t.TotalKicks, len(t.Sessions), t.GoalCount, t.MergeMinutes)
			if t.Active != nil {
				printKick(out, *t.Active)
			}
			return nil
		}),
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List kick sessions, newest first",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			sessions, err := app.RecordsCLI.KickHistory(ctx, limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(out, "no kick sessions")
			}
			for _, s := range sessions {
				printKick(out, s)
			}
			return nil
		}),
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list (0 for all)")
	kick.AddCommand(history)
	return kick
}

func newContractionCmd(dataDir *string) *cobra.Command {
	con := &cobra.Command{Use: "contraction", Short: "Contraction timing"}

	con.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a timing session, or resume the running one",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.RecordsCLI.ContractionStart(ctx)
			if err != nil {
				return err
			}
			if res.Resumed {
				_, _ = fmt.Fprint(out, "resumed ")
			}
			printContractionSession(out, res.Session)
			return nil
		}),
	})
	con.AddCommand(&cobra.Command{
		Use:   "begin",
		Short: "Mark the start of a contraction",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			c, err := app.RecordsCLI.ContractionBegin(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "contraction %s started %s interval=%s\n", c.ID, clockAt(c.StartedAt), formatMs(c.Interval))
			return nil
		}),
	})
	con.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Mark the end of the running contraction",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.RecordsCLI.ContractionStop(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "contraction %s lasted %s\n", res.Contraction.ID, formatMs(res.Contraction.Duration))
			printContractionSession(out, res.Session)
			if res.Session.AlertTriggered {
				_, _ = fmt.Fprintln(out, "5-1-1 pattern reached: contact your care provider")
			}
			return nil
		}),
	})
	con.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the timing session",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			s, err := app.RecordsCLI.ContractionEnd(ctx)
			if err != nil {
				return err
			}
			printContractionSession(out, s)
			return nil
		}),
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List timing sessions, newest first",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			sessions, err := app.RecordsCLI.ContractionHistory(ctx, limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(out, "no contraction sessions")
			}
			for _, s := range sessions {
				printContractionSession(out, s)
			}
			return nil
		}),
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list (0 for all)")
	con.AddCommand(history)

	con.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session with its contractions",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			d, err := app.RecordsCLI.ContractionShow(ctx, args[0])
			if err != nil {
				return err
			}
			printContractionSession(out, d.Session)
			for _, c := range d.Contractions {
				_, _ = fmt.Fprintf(out, "  %s\tduration=%s\tinterval=%s\n", clockAt(c.StartedAt), formatMs(c.Duration), formatMs(c.Interval))
			}
			return nil
		}),
	})
	return con
}

func newFeedCmd(dataDir *string) *cobra.Command {
	feed := &cobra.Command{Use: "feed", Short: "Feeding log"}

	var notes string
	var volume int
	notesPtr := func(cmd *cobra.Command) *string {
		if !cmd.Flags().Changed("notes") {
			return nil
		}
		return &notes
	}
	volumePtr := func(cmd *cobra.Command) *int {
		if !cmd.Flags().Changed("ml") {
			return nil
		}
		return &volume
	}

	start := &cobra.Command{
		Use:   "start <breast_left|breast_right|pump_left|pump_right|pump_both>",
		Short: "Start a timed feeding; an open one is ended first",
		Args:  cobra.ExactArgs(1),
	}
	start.RunE = withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
		r, err := app.RecordsCLI.FeedStart(ctx, args[0], notesPtr(start))
		if err != nil {
			return err
		}
		printFeeding(out, r)
		return nil
	})
	start.Flags().StringVar(&notes, "notes", "", "free text")

	bottle := &cobra.Command{
		Use:   "bottle",
		Short: "Record a bottle feed",
	}
	bottle.RunE = withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
		r, err := app.RecordsCLI.FeedBottle(ctx, volumePtr(bottle), notesPtr(bottle))
		if err != nil {
			return err
		}
		printFeeding(out, r)
		return nil
	})
	bottle.Flags().IntVar(&volume, "ml", 0, "volume in millilitres")
	bottle.Flags().StringVar(&notes, "notes", "", "free text")

	update := &cobra.Command{
		Use:   "update <feeding-id>",
		Short: "Change the volume or notes of a feeding",
		Args:  cobra.ExactArgs(1),
	}
	update.RunE = withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
		res, err := app.RecordsCLI.FeedUpdate(ctx, args[0], volumePtr(update), notesPtr(update))
		if err != nil {
			return err
		}
		if !res.Applied {
			_, _ = fmt.Fprintln(out, "not changed: feeding belongs to another user")
			return nil
		}
		printFeeding(out, res.Record)
		return nil
	})
	update.Flags().IntVar(&volume, "ml", 0, "volume in millilitres")
	update.Flags().StringVar(&notes, "notes", "", "free text")

	feed.AddCommand(start, bottle, update)
	feed.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the open feeding",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			r, err := app.RecordsCLI.FeedEnd(ctx)
			if err != nil {
				return err
			}
			printFeeding(out, r)
			return nil
		}),
	})
	feed.AddCommand(&cobra.Command{
		Use:   "last",
		Short: "Show the most recent feeding",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			res, err := app.RecordsCLI.FeedLast(ctx)
			if err != nil {
				return err
			}
			if !res.Found {
				_, _ = fmt.Fprintln(out, "no feedings")
				return nil
			}
			printFeeding(out, res.Record)
			return nil
		}),
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List feedings, newest first",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			records, err := app.RecordsCLI.FeedHistory(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "no feedings")
			}
			for _, r := range records {
				printFeeding(out, r)
			}
			return nil
		}),
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum records to list (0 for all)")
	feed.AddCommand(history)
	return feed
}

func newBagCmd(dataDir *string) *cobra.Command {
	bag := &cobra.Command{Use: "bag", Short: "Hospital bag checklist"}

	bag.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List checklist items",
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, _ []string) error {
			items, err := app.RecordsCLI.BagList(ctx)
			if err != nil {
				return err
			}
			for _, it := range items {
				mark := "[ ]"
				if it.Checked {
					mark = "[x]"
				}
				_, _ = fmt.Fprintf(out, "%s %s\t%s\t%s\n", mark, it.ID, it.Category, it.Name)
			}
			return nil
		}),
	})
	bag.AddCommand(&cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Check or uncheck an item",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			res, err := app.RecordsCLI.BagToggle(ctx, args[0])
			if err != nil {
				return err
			}
			if !res.Applied {
				_, _ = fmt.Fprintln(out, "not changed: item belongs to another user")
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s checked=%t\n", res.Item.Name, res.Item.Checked)
			return nil
		}),
	})
	bag.AddCommand(&cobra.Command{
		Use:   "add <mom|baby|documents> <name>",
		Short: "Add a custom item",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			it, err := app.RecordsCLI.BagAdd(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "added %s (%s)\n", it.Name, it.ID)
			return nil
		}),
	})
	bag.AddCommand(&cobra.Command{
		Use:   "rm <item-id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, out io.Writer, app *bootstrap.App, args []string) error {
			removed, err := app.RecordsCLI.BagRemove(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				_, _ = fmt.Fprintln(out, "not removed: item belongs to another user")
				return nil
			}
			_, _ = fmt.Fprintln(out, "removed")
			return nil
		}),
	})
	return bag
}
