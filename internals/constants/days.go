package constants

import "time"

// Weekdays in the order the availability UI shows them.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DefaultCounsellorDays get a template seeded when a counsellor account is created.
var DefaultCounsellorDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Sunday"}

// DefaultCounsellorSlots is the hourly template used for new counsellors.
var DefaultCounsellorSlots = [][2]string{
	{"09:00", "10:00"},
	{"10:00", "11:00"},
	{"11:00", "12:00"},
	{"12:00", "13:00"},
	{"14:00", "15:00"},
	{"15:00", "16:00"},
}

// IsWeekday reports whether s is one of the Weekdays names.
func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// WeekdayName maps time.Weekday to the stored day name.
func WeekdayName(d time.Weekday) string {
	return d.String()
}
