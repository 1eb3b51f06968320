package app

import "time"

// NotificationLevel represents a selectable level.
type NotificationLevel string

// NotificationSuccess and related constants define package defaults.
const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is one mutation-outcome message shown to the user.
type Notification struct {
	ID      string
	Level   NotificationLevel
	Message string
	Time    time.Time
}
