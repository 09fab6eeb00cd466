// Package timeutil normalizes human-entered clock times into the canonical
// 24-hour "HH:MM" form used for storage and comparison, and renders canonical
// times back to 12-hour display strings.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekdays lists the valid day names in week order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdaySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Weekdays))
	for _, d := range Weekdays {
		set[d] = struct{}{}
	}
	return set
}()

// IsWeekday reports whether s is one of the seven valid day names.
func IsWeekday(s string) bool {
	_, ok := weekdaySet[s]
	return ok
}

// Parse accepts strict 24-hour "HH:MM" or 12-hour "H:MM"/"HH:MM" with an
// AM/PM suffix (case-insensitive, optional space) and returns the canonical
// 24-hour form. ok is false for anything unparseable.
func Parse(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if hour, minute, ok := splitClock(s); ok && len(s) == 5 {
		return canonical(hour, minute), true
	}

	upper := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	var pm bool
	switch {
	case strings.HasSuffix(upper, "AM"):
		pm = false
	case strings.HasSuffix(upper, "PM"):
		pm = true
	default:
		return "", false
	}

	hour, minute, ok := splitClock(upper[:len(upper)-2])
	if !ok || hour < 1 || hour > 12 {
		return "", false
	}

	// 12 AM is midnight, 12 PM stays noon, 1-11 PM shift forward.
	if pm && hour < 12 {
		hour += 12
	} else if !pm && hour == 12 {
		hour = 0
	}
	return canonical(hour, minute), true
}

// Normalize is Parse re-serialized to the canonical storage form. Two inputs
// denoting the same instant normalize to the identical string.
func Normalize(raw string) (string, bool) {
	return Parse(raw)
}

// Format12Hour renders a canonical "HH:MM" as "H:MM AM|PM". Hours 0 and 12
// both render as 12. Malformed input is returned unchanged.
func Format12Hour(canon string) string {
	hour, minute, ok := splitClock(canon)
	if !ok || len(canon) != 5 {
		return canon
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// Label builds the human-readable timeframe label for two canonical times.
func Label(start, end string) string {
	return Format12Hour(start) + " - " + Format12Hour(end)
}

// Overlaps tests half-open interval overlap on canonical times: [s1,e1) and
// [s2,e2) overlap iff s1 < e2 and s2 < e1. Lexicographic comparison is
// chronological for zero-padded "HH:MM". Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

func splitClock(s string) (hour, minute int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func canonical(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
