// Package calendar implements the ordinance's date arithmetic: reporting
// quarters, working-day offsets, and the quarterly filing-deadline table.
// Every function is pure; "now" is always an argument, never read here.
package calendar

import (
	"fmt"
	"time"
)

// Quarter is one of the four fixed reporting quarters.
type Quarter int

const (
	Q1 Quarter = 1
	Q2 Quarter = 2
	Q3 Quarter = 3
	Q4 Quarter = 4
)

// quarterEndDay holds the fixed last day of each quarter's final month.
// Boundaries are month/day based, so leap years need no special handling.
var quarterEndDay = map[Quarter]int{Q1: 31, Q2: 30, Q3: 30, Q4: 31}

// IsValid checks if the quarter is one of Q1 through Q4.
func (q Quarter) IsValid() bool {
	return q >= Q1 && q <= Q4
}

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d", int(q))
}

// ParseQuarter creates a Quarter from its "Q1".."Q4" form.
func ParseQuarter(s string) (Quarter, error) {
	switch s {
	case "Q1":
		return Q1, nil
	case "Q2":
		return Q2, nil
	case "Q3":
		return Q3, nil
	case "Q4":
		return Q4, nil
	}
	return 0, fmt.Errorf("invalid quarter %q", s)
}

// QuarterOf returns the quarter containing the given date.
func QuarterOf(t time.Time) Quarter {
	return Quarter((int(t.Month())-1)/3 + 1)
}

// QuarterStart returns the first calendar day of the quarter.
func QuarterStart(q Quarter, year int) time.Time {
	startMonth := time.Month(3*(int(q)-1) + 1)
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
}

// QuarterEnd returns the last calendar day of the quarter.
func QuarterEnd(q Quarter, year int) time.Time {
	endMonth := time.Month(3 * int(q))
	return time.Date(year, endMonth, quarterEndDay[q], 0, 0, 0, 0, time.UTC)
}

// Period is a concrete reporting period: a quarter in a specific year.
type Period struct {
	Quarter Quarter `json:"quarter"`
	Year    int     `json:"year"`
}

// PeriodOf returns the reporting period containing the given date.
func PeriodOf(t time.Time) Period {
	return Period{Quarter: QuarterOf(t), Year: t.Year()}
}

// Start returns the first day of the period.
func (p Period) Start() time.Time {
	return QuarterStart(p.Quarter, p.Year)
}

// End returns the last day of the period.
func (p Period) End() time.Time {
	return QuarterEnd(p.Quarter, p.Year)
}

// Contains reports whether the calendar day of t falls inside the period,
// boundaries inclusive. Time of day is ignored: an activity logged at 23:59 on
// the quarter's last day still belongs to it.
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start()) && !day.After(p.End())
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Quarter, p.Year)
}
