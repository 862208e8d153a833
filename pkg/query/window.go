package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultRange = "-7d"
	DefaultEvery = "1h"
)

var (
	relativeRangeRe = regexp.MustCompile(`^-(\d+(ns|us|ms|s|mo|m|h|d|w|y))+$`)
	durationRe      = regexp.MustCompile(`^(\d+(ns|us|ms|s|mo|m|h|d|w|y))+$`)
	durationPartRe  = regexp.MustCompile(`(\d+)(ns|us|ms|s|mo|m|h|d|w|y)`)
)

var fixedUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
}

// Window is the time range and aggregation period of a query.
type Window struct {
	// Range is either a negative duration relative to now, like "-7d", or
	// an RFC3339 start instant.
	Range string `json:"range"`
	// Every is the aggregation period, like "1h".
	Every string `json:"every"`
}

// ParseWindow validates rangeStr and every, applying defaults for empty
// values. Absolute starts are normalized to UTC.
func ParseWindow(rangeStr, every string) (Window, error) {
	rangeStr = strings.TrimSpace(rangeStr)
	every = strings.TrimSpace(every)
	if rangeStr == "" {
		rangeStr = DefaultRange
	}
	if every == "" {
		every = DefaultEvery
	}

	if !relativeRangeRe.MatchString(rangeStr) {
		t, err := time.Parse(time.RFC3339, rangeStr)
		if err != nil {
			return Window{}, fmt.Errorf("invalid range %q: must be a negative duration or RFC3339 time", rangeStr)
		}
		rangeStr = t.UTC().Format(time.RFC3339)
	}
	if !durationRe.MatchString(every) {
		return Window{}, fmt.Errorf("invalid aggregation period %q", every)
	}
	return Window{Range: rangeStr, Every: every}, nil
}

// Period returns Every as a fixed duration. ok is false when Every is not a
// valid duration or uses a calendar unit (mo, y) with no fixed length.
func (w Window) Period() (time.Duration, bool) {
	if !durationRe.MatchString(w.Every) {
		return 0, false
	}
	var total time.Duration
	for _, part := range durationPartRe.FindAllStringSubmatch(w.Every, -1) {
		unit, ok := fixedUnits[part[2]]
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseInt(part[1], 10, 64)
		if err != nil {
			return 0, false
		}
		total += time.Duration(n) * unit
	}
	return total, total > 0
}

// key identifies the window in cache keys.
func (w Window) key() string {
	return w.Range + ":" + w.Every
}
