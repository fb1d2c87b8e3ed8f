package domain

import (
	"fmt"
	"time"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is one local alert. Silent asks the notifier for a
// low-stimulus style (used during priority-only quiet hours).
type Notification struct {
	Category string
	Title    string
	Body     string
	Silent   bool
}

func FeedingNotification(since time.Duration) Notification {
	h := int(since.Hours())
	m := int(since.Minutes()) % 60
	return Notification{
		Category: "feeding",
		Title:    "Feeding reminder",
		Body:     fmt.Sprintf("It has been %dh %02dm since the last feed started.", h, m),
	}
}

func KickNotification(today, min int) Notification {
	return Notification{
		Category: "kick",
		Title:    "Kick count check",
		Body:     fmt.Sprintf("%d of %d kicks counted today. Time for a counting session?", today, min),
	}
}

func PrenatalNotification(days int) Notification {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return Notification{
		Category: "prenatal",
		Title:    fmt.Sprintf("%d %s to go", days, unit),
		Body:     fmt.Sprintf("Your due date is %d %s away. Is the hospital bag ready?", days, unit),
	}
}
