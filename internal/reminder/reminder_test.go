package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueNotifications(t *testing.T) {
	due := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	deadline := Deadline{Source: SourceFiling, Ref: "Q1 2025", Label: "Q1 expense report", Due: due}

	cases := []struct {
		name     string
		today    time.Time
		wantKind Kind
		wantDays int
		none     bool
	}{
		{name: "15 days out is silent", today: due.AddDate(0, 0, -15), none: true},
		{name: "14 days out reminds", today: due.AddDate(0, 0, -14), wantKind: KindReminder, wantDays: 14},
		{name: "10 days out is silent", today: due.AddDate(0, 0, -10), none: true},
		{name: "7 days out reminds", today: due.AddDate(0, 0, -7), wantKind: KindReminder, wantDays: 7},
		{name: "1 day out reminds", today: due.AddDate(0, 0, -1), wantKind: KindReminder, wantDays: 1},
		{name: "due today reminds", today: due, wantKind: KindReminder, wantDays: 0},
		{name: "1 day late is overdue", today: due.AddDate(0, 0, 1), wantKind: KindOverdue, wantDays: -1},
		{name: "40 days late is still overdue", today: due.AddDate(0, 0, 40), wantKind: KindOverdue, wantDays: -40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DueNotifications(tc.today, []Deadline{deadline})
			if tc.none {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantKind, got[0].Kind)
			assert.Equal(t, tc.wantDays, got[0].DaysUntil)
			assert.Equal(t, deadline, got[0].Deadline)
		})
	}
}

func TestDueNotifications_TimeOfDayDoesNotShiftTheMark(t *testing.T) {
	due := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	deadline := Deadline{Source: SourceFiling, Ref: "Q1 2025", Due: due}

	// A morning run on the due date still counts as day 0.
	morning := time.Date(2025, time.April, 15, 9, 30, 0, 0, time.UTC)
	got := DueNotifications(morning, []Deadline{deadline})
	require.Len(t, got, 1)
	assert.Equal(t, KindReminder, got[0].Kind)
	assert.Equal(t, 0, got[0].DaysUntil)
}

func TestDueNotifications_MultipleDeadlines(t *testing.T) {
	today := time.Date(2025, time.April, 8, 0, 0, 0, 0, time.UTC)
	deadlines := []Deadline{
		{Source: SourceFiling, Ref: "Q1 2025", Due: time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)},
		{Source: SourceAppeal, Ref: "v-1", Due: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{Source: SourceRegistration, Ref: "e-1", Due: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := DueNotifications(today, deadlines)
	require.Len(t, got, 2)
	assert.Equal(t, KindReminder, got[0].Kind)
	assert.Equal(t, KindOverdue, got[1].Kind)
}

func TestDecisionKey_DistinguishesMarksAndDays(t *testing.T) {
	d := Deadline{Source: SourceAppeal, Ref: "v-1", Due: time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)}

	day14 := Decision{Deadline: d, Kind: KindReminder, DaysUntil: 14}
	day7 := Decision{Deadline: d, Kind: KindReminder, DaysUntil: 7}
	late1 := Decision{Deadline: d, Kind: KindOverdue, DaysUntil: -1}
	late2 := Decision{Deadline: d, Kind: KindOverdue, DaysUntil: -2}

	assert.NotEqual(t, day14.Key(), day7.Key())
	assert.NotEqual(t, late1.Key(), late2.Key())
	assert.Equal(t, day14.Key(), Decision{Deadline: d, Kind: KindReminder, DaysUntil: 14}.Key())
}
