// Package format holds the display helpers shared by the result and wizard views.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date renders "2026-10-20" as "20 Oct 2026". Unparseable input is returned as is.
func Date(s string) string {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return d.Format("2 Jan 2006")
}

// Time renders a 24h "HH:MM" clock as "h:MM AM/PM". Empty input stays empty.
func Time(s string) string {
	if s == "" {
		return ""
	}
	hour, minute, err := ParseClock(s)
	if err != nil {
		return s
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// ParseClock splits "HH:MM" into its hour and minute
func ParseClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid clock %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	// "HH:MM:SS" from some upstream rows
	mm, _, _ = strings.Cut(mm, ":")
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Price renders a fare with two decimals
func Price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Rupees renders a whole-rupee amount, e.g. "₹5000"
func Rupees(v float64) string {
	return "₹" + strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// Today returns the current local date as "YYYY-MM-DD"
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// IsDate reports whether s is a "YYYY-MM-DD" date
func IsDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
