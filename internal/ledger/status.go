package ledger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"scadenziario/internal/logger"
	"scadenziario/pkg/models"
)

// UpcomingWindowDays is the inclusive number of days ahead of today in which
// an unpaid item is reported as upcoming.
const UpcomingWindowDays = 15

// Clock returns the current wall-clock time
type Clock func() time.Time

// FixedClock returns a Clock that always reports t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// CalculateStatus derives the status of an item from its due date, its
// payment date (nil when unpaid) and the evaluation time.
//
// Each date is reduced to its calendar day in its own location before the
// difference is taken, so the time of day either value carries is ignored.
func CalculateStatus(dueDate time.Time, paymentDate *time.Time, now time.Time) models.Status {
	if paymentDate != nil {
		return models.StatusCompleted
	}

	diffDays := daysBetween(calendarDay(now), calendarDay(dueDate))

	switch {
	case diffDays < 0:
		return models.StatusOverdue
	case diffDays <= UpcomingWindowDays:
		return models.StatusUpcoming
	default:
		return models.StatusFuture
	}
}

// calendarDay maps t to midnight UTC of the date it shows in its own location
func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b, both calendar days
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// StatusCalculator evaluates statuses for string dates as they arrive from
// the backend, against an injectable clock.
type StatusCalculator struct {
	clock Clock
	loc   *time.Location
	log   zerolog.Logger
}

// NewStatusCalculator creates a calculator using clock (time.Now when nil)
// and loc (time.Local when nil) for calendar-day comparisons.
func NewStatusCalculator(clock Clock, loc *time.Location) *StatusCalculator {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &StatusCalculator{
		clock: clock,
		loc:   loc,
		log:   logger.WithComponent("status-calculator"),
	}
}

// WithLogger replaces the calculator's logger
func (sc *StatusCalculator) WithLogger(log zerolog.Logger) *StatusCalculator {
	sc.log = log
	return sc
}

// Today returns the current calendar day at midnight
func (sc *StatusCalculator) Today() time.Time {
	return startOfDay(sc.clock(), sc.loc)
}

// Status returns the status for a due date and an optional payment date.
// Any non-blank payment date means the item is paid, even if it cannot be
// parsed. An unparseable due date yields StatusFuture so that the item is
// never flagged as overdue by mistake.
func (sc *StatusCalculator) Status(dueDate string, paymentDate *string) models.Status {
	if hasValue(paymentDate) {
		return models.StatusCompleted
	}

	due, err := ParseDate(dueDate, sc.loc)
	if err != nil {
		sc.log.Warn().
			Err(err).
			Str("due_date", dueDate).
			Msg("Invalid due date, defaulting status to future")
		return models.StatusFuture
	}

	return CalculateStatus(due, nil, sc.clock().In(sc.loc))
}

// ItemStatus returns the status for a normalized item
func (sc *StatusCalculator) ItemStatus(item *models.LedgerItem) models.Status {
	return sc.Status(item.Date, item.PaymentDate)
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
