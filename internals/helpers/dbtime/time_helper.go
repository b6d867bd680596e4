// Package dbtime holds the service timezone and the date formats used on the wire.
package dbtime

import (
	"strings"
	"sync"
	"time"
)

const (
	DateLayout    = "2006-01-02" // request/response dates
	DisplayLayout = "02-01-2006" // dates inside notification text
	ClockLayout   = "15:04"
)

var (
	locMu sync.RWMutex
	loc   = time.UTC
)

// SetLocation installs the service timezone by IANA name. Unknown names keep the current one.
func SetLocation(name string) error {
	l, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	locMu.Lock()
	loc = l
	locMu.Unlock()
	return nil
}

// Location returns the service timezone (UTC until SetLocation succeeds).
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return loc
}

// Now is the current time in the service timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// ParseDate parses YYYY-MM-DD into a UTC midnight calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DateOnly strips the clock part, keeping the calendar date as UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDisplay renders a calendar date as DD-MM-YYYY.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// ValidClock reports whether s is a HH:MM wall-clock value.
func ValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil && len(s) == 5
}
