package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"cradle/internal/modules/reminder/domain"
	reminderout "cradle/internal/modules/reminder/port/out"
	"cradle/internal/platform/logger"
)

// DesktopNotifier shows notifications through notify-send on Linux and
// osascript on macOS. Permission is granted when that command exists.
type DesktopNotifier struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
			if err != nil {
				return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
			}
			return nil
		},
	}
}

var _ reminderout.Notifier = (*DesktopNotifier)(nil)

func (d *DesktopNotifier) command() string {
	if d.goos == "darwin" {
		return "osascript"
	}
	return "notify-send"
}

func (d *DesktopNotifier) Permission(context.Context) (domain.Permission, error) {
	if _, err := d.lookPath(d.command()); err != nil {
		return domain.PermissionDenied, nil
	}
	return domain.PermissionGranted, nil
}

func (d *DesktopNotifier) Notify(ctx context.Context, n domain.Notification) error {
	name, args := d.commandLine(n)
	return d.run(ctx, name, args...)
}

func (d *DesktopNotifier) commandLine(n domain.Notification) (string, []string) {
	if d.goos == "darwin" {
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(n.Body), strconv.Quote(n.Title))
		if !n.Silent {
			script += ` sound name "default"`
		}
		return "osascript", []string{"-e", script}
	}
	urgency := "normal"
	if n.Silent {
		urgency = "low"
	}
	return "notify-send", []string{"--app-name=cradle", "--urgency=" + urgency, "--category=" + n.Category, n.Title, n.Body}
}

// LogNotifier writes notifications to the log. It is always permitted and
// serves headless hosts.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogNotifier{log: log}
}

var _ reminderout.Notifier = (*LogNotifier)(nil)

func (l *LogNotifier) Permission(context.Context) (domain.Permission, error) {
	return domain.PermissionGranted, nil
}

func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	l.log.Info("notification", "category", n.Category, "title", n.Title, "body", n.Body, "silent", n.Silent)
	return nil
}
