package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// ValidateRecurrence accepts exactly 5 cron fields
// (minute hour day-of-month month day-of-week). gronx also accepts a
// seconds field, which reminders do not support.
func ValidateRecurrence(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("%w %q, expected 5-field format (minute hour day-of-month month day-of-week)", ErrInvalidCron, expr)
	}
	if !hasOccurrenceWithinYear(expr, time.Now()) {
		return fmt.Errorf("%w: %q", ErrNoOccurrences, expr)
	}
	return nil
}

// NextOccurrence returns the next time expr fires strictly after from.
func NextOccurrence(expr string, from time.Time) (time.Time, error) {
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidCron, expr, err)
	}
	return next, nil
}

func hasOccurrenceWithinYear(expr string, from time.Time) bool {
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil {
		return false
	}
	return next.Before(from.Add(365 * 24 * time.Hour))
}
