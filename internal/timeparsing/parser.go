// Package timeparsing turns the time expressions accepted on the command
// line, such as "2w", "2024-01-31" or "last monday", into times.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactDurationRe matches [+-]?<n><unit> with unit one of h, d, w, m, y.
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// Direction says which way an unsigned compact duration points.
type Direction int

const (
	// Forward reads "3d" as three days from now.
	Forward Direction = iota
	// Backward reads "3d" as three days ago.
	Backward
)

// ParseCompactDuration applies a compact duration such as "+6h", "-1d" or
// "2w" to now. Units are hours, days, weeks, months and years. An
// unsigned amount goes in direction dir.
func ParseCompactDuration(s string, now time.Time, dir Direction) (time.Time, error) {
	m := compactDurationRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}
	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", m[2])
	}
	if m[1] == "-" || (m[1] == "" && dir == Backward) {
		amount = -amount
	}

	switch m[3] {
	case "h":
		return now.Add(time.Duration(amount) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, 7*amount), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	default:
		return now.AddDate(amount, 0, 0), nil
	}
}

// IsCompactDuration reports whether s is compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}

var nlp = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseNaturalLanguage parses English such as "yesterday",
// "next monday at 2pm" or "3 days ago" relative to now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	r, err := nlp.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("not a recognised time expression: %q", s)
	}
	return r.Time, nil
}

func parse(s string, now time.Time, dir Direction) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := ParseCompactDuration(s, now, dir); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q: use a date (2024-01-31), a duration (2w) or words (last monday)", s)
}

// ParseRelativeTime parses s as a compact duration, then a date (midnight
// in now's location), then an RFC 3339 timestamp, then English. Unsigned
// durations point into the future.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	return parse(s, now, Forward)
}

// ParseSince is ParseRelativeTime for cut-off times: "2w" means two weeks
// ago.
func ParseSince(s string, now time.Time) (time.Time, error) {
	return parse(s, now, Backward)
}
