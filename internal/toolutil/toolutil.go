// Package toolutil provides shared input parsing and clamping helpers for
// go_tube MCP tools.
package toolutil

import (
	"fmt"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// ClampCount bounds a user-supplied count to [1, max], substituting def when
// the input is zero.
func ClampCount(n, def, max int) int {
	if n == 0 {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// ParseDateRange converts inclusive calendar dates (YYYY-MM-DD) into the
// half-open UTC window [start, end+1d).
func ParseDateRange(startDate, endDate string) (start, end time.Time, err error) {
	start, err = parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", engine.ErrInvalidArgument, err)
	}
	endDay, err := parseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", engine.ErrInvalidArgument, err)
	}
	end = endDay.AddDate(0, 0, 1)
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s after %s",
			engine.ErrInvalidRange, startDate, endDate)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD, got %q", s)
	}
	return t.UTC(), nil
}
