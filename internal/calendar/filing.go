package calendar

import "time"

// FilingDeadline is one row of the ordinance's quarterly expense-report
// deadline table.
type FilingDeadline struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
	Year  int        `json:"year"`
	Label string     `json:"label"`
}

// Date returns the deadline as a calendar date.
func (d FilingDeadline) Date() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// QuarterFilingDeadline returns the expense-report due date for a reporting
// period. Q1-Q3 reports are due in the same year; the Q4 report rolls into
// January 15 of the following year. That asymmetry is the ordinance's, not an
// implementation choice.
func QuarterFilingDeadline(q Quarter, year int) FilingDeadline {
	switch q {
	case Q1:
		return FilingDeadline{Month: time.April, Day: 15, Year: year, Label: "Q1 expense report"}
	case Q2:
		return FilingDeadline{Month: time.July, Day: 15, Year: year, Label: "Q2 expense report"}
	case Q3:
		return FilingDeadline{Month: time.October, Day: 15, Year: year, Label: "Q3 expense report"}
	default:
		return FilingDeadline{Month: time.January, Day: 15, Year: year + 1, Label: "Q4 expense report"}
	}
}
