package calendar

import (
	"math"
	"time"
)

// AddWorkingDays advances start by n working days (Mon-Fri). The start date
// itself is never counted, even when it is a weekday; n = 0 returns start
// unchanged. County ordinance deadlines skip weekends only, not holidays.
func AddWorkingDays(start time.Time, n int) time.Time {
	d := start
	for counted := 0; counted < n; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			counted++
		}
	}
	return d
}

// DaysUntil returns the number of calendar days from today until deadline,
// rounded up. Negative means the deadline has passed.
func DaysUntil(deadline, today time.Time) int {
	diff := deadline.Sub(today)
	return int(math.Ceil(diff.Hours() / 24))
}

// LongDate formats a date the way county notices spell deadlines out,
// e.g. "October 22, 2025".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
