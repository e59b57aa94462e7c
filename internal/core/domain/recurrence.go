package domain

import "time"

// NextDueDate advances a due date by interval recurrence steps.
// Daily and weekly steps are fixed-length. Monthly steps are calendar
// months with the day-of-month clamped to the last valid day of the
// target month, so Jan 31 + 1 month lands on Feb 28 (or Feb 29 in a
// leap year) instead of rolling over into March.
func NextDueDate(current time.Time, pattern Recurrence, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch pattern {
	case RecurrenceDaily:
		return current.AddDate(0, 0, interval)
	case RecurrenceWeekly:
		return current.AddDate(0, 0, 7*interval)
	case RecurrenceMonthly:
		return addMonthsClamped(current, interval)
	default:
		return current
	}
}

// NextDueDateAfter advances current by recurrence steps until the result is
// strictly after now. Completing a task that sat overdue for several cycles
// must never spawn an occurrence that is itself already overdue.
func NextDueDateAfter(current time.Time, pattern Recurrence, interval int, now time.Time) time.Time {
	next := NextDueDate(current, pattern, interval)
	for !next.After(now) {
		next = NextDueDate(next, pattern, interval)
	}
	return next
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	// Normalize the target month first with day 1 so time.Date cannot
	// overflow into the following month, then clamp the day.
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
