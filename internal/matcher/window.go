package matcher

import (
	"fmt"
	"time"

	"github.com/statusdesk/status-admin/internal/model"
)

// IsCurrent reports whether s has not yet expired at now. Statuses scheduled
// to start in the future are current, and so is any status without an end.
func IsCurrent(s *model.Status, now time.Time) bool {
	if s.EndTime == nil {
		return true
	}
	return s.EndTime.After(now)
}

// IsExpired reports whether s has an end time at or before now.
func IsExpired(s *model.Status, now time.Time) bool {
	return s.EndTime != nil && !s.EndTime.After(now)
}

// Window selects statuses by time classification.
type Window string

const (
	WindowAll     Window = ""
	WindowCurrent Window = "current"
	WindowExpired Window = "expired"
)

// ParseWindow accepts "", "all", "current" or "expired".
func ParseWindow(raw string) (Window, error) {
	switch raw {
	case "", "all":
		return WindowAll, nil
	case string(WindowCurrent):
		return WindowCurrent, nil
	case string(WindowExpired):
		return WindowExpired, nil
	}
	return "", fmt.Errorf("unknown time window %q", raw)
}

// Contains applies the window predicate.
func (w Window) Contains(s *model.Status, now time.Time) bool {
	switch w {
	case WindowCurrent:
		return IsCurrent(s, now)
	case WindowExpired:
		return IsExpired(s, now)
	default:
		return true
	}
}
