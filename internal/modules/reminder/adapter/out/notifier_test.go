package out

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cradle/internal/modules/reminder/domain"
)

func TestDesktopNotifierPermissionFollowsCommand(t *testing.T) {
	t.Parallel()
	n := &DesktopNotifier{
		goos:     "linux",
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	perm, err := n.Permission(context.Background())
	if err != nil || perm != domain.PermissionDenied {
		t.Fatalf("expected denied, got %s err=%v", perm, err)
	}
	n.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	perm, err = n.Permission(context.Background())
	if err != nil || perm != domain.PermissionGranted {
		t.Fatalf("expected granted, got %s err=%v", perm, err)
	}
}

func TestDesktopNotifierCommandLines(t *testing.T) {
	t.Parallel()
	var gotName string
	var gotArgs []string
	n := &DesktopNotifier{
		goos: "linux",
		run: func(_ context.Context, name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		},
	}
	note := domain.Notification{Category: "kick", Title: "Kick count check", Body: "Time to count", Silent: true}
	if err := n.Notify(context.Background(), note); err != nil {
		t.Fatalf("notify: %v", err)
	}
	want := []string{"--app-name=cradle", "--urgency=low", "--category=kick", "Kick count check", "Time to count"}
	if gotName != "notify-send" || !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("unexpected command: %s %v", gotName, gotArgs)
	}

	n.goos = "darwin"
	note.Silent = false
	if err := n.Notify(context.Background(), note); err != nil {
		t.Fatalf("notify darwin: %v", err)
	}
	if gotName != "osascript" || len(gotArgs) != 2 || !strings.Contains(gotArgs[1], `with title "Kick count check" sound name "default"`) {
		t.Fatalf("unexpected darwin command: %s %v", gotName, gotArgs)
	}
}
