package reminder

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lobbyreg/internal/enforcement"
	"lobbyreg/internal/hours"
	"lobbyreg/pkg/domain"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []Decision
}

func (n *captureNotifier) Notify(_ context.Context, d Decision) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, d)
	return nil
}

type staticSource []Deadline

func (s staticSource) Deadlines(context.Context, time.Time) ([]Deadline, error) {
	return s, nil
}

type failingSource struct{}

func (failingSource) Deadlines(context.Context, time.Time) ([]Deadline, error) {
	return nil, fmt.Errorf("source unavailable")
}

type ReminderServiceSuite struct {
	suite.Suite
	ctx      context.Context
	notifier *captureNotifier
	now      time.Time
}

func TestReminderServiceSuite(t *testing.T) {
	suite.Run(t, new(ReminderServiceSuite))
}

func (s *ReminderServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.notifier = &captureNotifier{}
	s.now = time.Date(2025, time.April, 8, 9, 0, 0, 0, time.UTC)
}

func (s *ReminderServiceSuite) newService(sources ...DeadlineSource) *Service {
	svc, err := New(NewInMemoryNotificationLog(), s.notifier, sources)
	s.Require().NoError(err)
	return svc
}

// =============================================================================
// Dedup
// =============================================================================

func (s *ReminderServiceSuite) TestRepeatedRunsSendOnce() {
	due := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := s.newService(staticSource{{Source: SourceFiling, Ref: "Q1 2025", Due: due}})

	sent, err := svc.RunOnce(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(1, sent)

	// Same day, second cron run: the decision recurs but delivery does not.
	sent, err = svc.RunOnce(s.ctx, s.now.Add(6*time.Hour))
	s.Require().NoError(err)
	s.Equal(0, sent)
	s.Len(s.notifier.sent, 1)
}

func (s *ReminderServiceSuite) TestEachMarkFiresSeparately() {
	due := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := s.newService(staticSource{{Source: SourceFiling, Ref: "Q1 2025", Due: due}})

	for _, today := range []time.Time{
		due.AddDate(0, 0, -14),
		due.AddDate(0, 0, -7),
		due.AddDate(0, 0, -1),
		due,
		due.AddDate(0, 0, 1),
		due.AddDate(0, 0, 2),
	} {
		_, err := svc.RunOnce(s.ctx, today)
		s.Require().NoError(err)
	}

	s.Len(s.notifier.sent, 6, "four reminder marks plus one overdue notice per day")
}

func (s *ReminderServiceSuite) TestFailingSourceDoesNotAbortPass() {
	due := s.now.AddDate(0, 0, 7)
	svc := s.newService(failingSource{}, staticSource{{Source: SourceAppeal, Ref: "v-1", Due: due}})

	sent, err := svc.RunOnce(s.ctx, s.now)
	s.Error(err)
	s.Equal(1, sent, "healthy sources still deliver")
}

// =============================================================================
// Sources
// =============================================================================

func (s *ReminderServiceSuite) TestFilingSourceCoversPriorYearQ4() {
	deadlines, err := FilingSource{}.Deadlines(s.ctx, s.now)
	s.Require().NoError(err)
	s.Len(deadlines, 5)

	s.Equal("Q4 2024", deadlines[0].Ref)
	s.Equal(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), deadlines[0].Due)

	// The current year's Q4 report rolls into next January.
	last := deadlines[len(deadlines)-1]
	s.Equal("Q4 2025", last.Ref)
	s.Equal(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), last.Due)
}

func (s *ReminderServiceSuite) TestRegistrationSource() {
	store := hours.NewInMemoryStore()
	hoursSvc, err := hours.New(store)
	s.Require().NoError(err)

	entityID := domain.NewEntityID()
	day := time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC)
	_, err = hoursSvc.Log(s.ctx, entityID, day, 11, s.now)
	s.Require().NoError(err)

	deadlines, err := RegistrationSource{Hours: hoursSvc}.Deadlines(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(deadlines, 1)

	s.Equal(SourceRegistration, deadlines[0].Source)
	s.Equal(entityID.String(), deadlines[0].Ref)
	// Three working days from Monday April 7 is Thursday April 10.
	s.Equal(time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC), deadlines[0].Due)
}

func (s *ReminderServiceSuite) TestAppealSource() {
	violations := enforcement.NewInMemoryViolationStore()
	appeals := enforcement.NewInMemoryAppealStore()
	enfSvc, err := enforcement.New(violations, appeals, enforcement.NewInMemoryTx(violations, appeals))
	s.Require().NoError(err)

	v, err := enfSvc.Issue(s.ctx, enforcement.IssueParams{
		EntityType:    domain.EntityLobbyist,
		EntityID:      domain.NewEntityID(),
		ViolationType: enforcement.ViolationFailureToRegister,
		Description:   "failed to register within the grace period",
		FineAmount:    200,
	}, s.now)
	s.Require().NoError(err)

	deadlines, err := AppealSource{Enforcement: enfSvc}.Deadlines(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(deadlines, 1)

	s.Equal(SourceAppeal, deadlines[0].Source)
	s.Equal(v.ID.String(), deadlines[0].Ref)
	s.True(deadlines[0].Due.Equal(v.AppealDeadline()))
}
