//go:build integration

package enforcement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lobbyreg/internal/enforcement"
	"lobbyreg/pkg/domain"
	"lobbyreg/pkg/platform/sentinel"
	"lobbyreg/pkg/testutil/containers"
)

type EnforcementPostgresSuite struct {
	suite.Suite
	ctx        context.Context
	pg         *containers.PostgresContainer
	violations *enforcement.PostgresViolationStore
	appeals    *enforcement.PostgresAppealStore
	service    *enforcement.Service
	now        time.Time
}

func TestEnforcementPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(EnforcementPostgresSuite))
}

func (s *EnforcementPostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(s.pg.Migrate(s.ctx, enforcement.Schema))
}

func (s *EnforcementPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "appeals", "violations"))

	s.violations = enforcement.NewPostgresViolationStore(s.pg.DB)
	s.appeals = enforcement.NewPostgresAppealStore(s.pg.DB)

	svc, err := enforcement.New(s.violations, s.appeals, enforcement.NewPostgresTx(s.pg.DB))
	s.Require().NoError(err)
	s.service = svc
	s.now = time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
}

func (s *EnforcementPostgresSuite) issue(fine int) *enforcement.Violation {
	v, err := s.service.Issue(s.ctx, enforcement.IssueParams{
		EntityType:    domain.EntityLobbyist,
		EntityID:      domain.NewEntityID(),
		ViolationType: enforcement.ViolationFailureToRegister,
		Description:   "failed to register within the grace period",
		FineAmount:    fine,
	}, s.now)
	s.Require().NoError(err)
	return v
}

func (s *EnforcementPostgresSuite) TestViolationRoundTrip() {
	v := s.issue(200)

	stored, err := s.violations.Get(s.ctx, v.ID)
	s.Require().NoError(err)

	s.Equal(v.ID, stored.ID)
	s.Equal(enforcement.StatusIssued, stored.Status)
	s.Equal(200, stored.FineAmount)
	s.True(stored.IssuedDate.Equal(s.now))
}

func (s *EnforcementPostgresSuite) TestConditionalUpdateRejectsStaleStatus() {
	v := s.issue(200)

	paid := *v
	paid.ApplyPaid("check #1021", s.now)
	s.Require().NoError(s.violations.Update(s.ctx, &paid, enforcement.StatusIssued))

	// A second writer still holding the ISSUED snapshot must lose.
	appealed := *v
	appealed.ApplyAppeal(s.now)
	err := s.violations.Update(s.ctx, &appealed, enforcement.StatusIssued)
	s.ErrorIs(err, sentinel.ErrStaleStatus)

	stored, err := s.violations.Get(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(enforcement.StatusPaid, stored.Status)
}

func (s *EnforcementPostgresSuite) TestAppealCascadeIsAtomic() {
	v := s.issue(300)

	appeal, err := s.service.FileAppeal(s.ctx, v.ID, "the hours were logged under the wrong quarter", s.now.AddDate(0, 0, 10))
	s.Require().NoError(err)

	_, violation, err := s.service.DecideAppeal(s.ctx, appeal.ID, enforcement.OutcomeOverturned,
		"records support the appellant", s.now.AddDate(0, 0, 20))
	s.Require().NoError(err)
	s.Equal(enforcement.StatusOverturned, violation.Status)

	storedAppeal, err := s.appeals.Get(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Equal(enforcement.AppealDecided, storedAppeal.Status)
	s.Require().NotNil(storedAppeal.Outcome)
	s.Equal(enforcement.OutcomeOverturned, *storedAppeal.Outcome)
}

func (s *EnforcementPostgresSuite) TestFailedFilingLeavesNoAppealRow() {
	v := s.issue(200)

	s.Require().NoError(s.pg.DB.QueryRowContext(s.ctx,
		"UPDATE violations SET status = 'PAID' WHERE id = $1 RETURNING id", v.ID.String()).Scan(new(string)))

	_, err := s.service.FileAppeal(s.ctx, v.ID, "raced against payment", s.now)
	s.Error(err)

	_, err = s.appeals.GetByViolation(s.ctx, v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *EnforcementPostgresSuite) TestListByStatus() {
	s.issue(100)
	s.issue(200)
	appealed := s.issue(300)
	_, err := s.service.FileAppeal(s.ctx, appealed.ID, "disputed", s.now)
	s.Require().NoError(err)

	issued, err := s.violations.ListByStatus(s.ctx, enforcement.StatusIssued)
	s.Require().NoError(err)
	s.Len(issued, 2)

	open, err := s.violations.ListByStatus(s.ctx, enforcement.StatusIssued, enforcement.StatusAppealed)
	s.Require().NoError(err)
	s.Len(open, 3)
}

func (s *EnforcementPostgresSuite) TestNullableAppealColumns() {
	v := s.issue(200)
	appeal, err := s.service.FileAppeal(s.ctx, v.ID, "disputed hours", s.now)
	s.Require().NoError(err)

	stored, err := s.appeals.Get(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Nil(stored.HearingDate)
	s.Nil(stored.Outcome)
	s.Nil(stored.DecidedAt)

	hearing := s.now.AddDate(0, 0, 40)
	_, err = s.service.ScheduleHearing(s.ctx, appeal.ID, hearing)
	s.Require().NoError(err)

	stored, err = s.appeals.Get(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.HearingDate)
	s.True(stored.HearingDate.Equal(hearing))
}
