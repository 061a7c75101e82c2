package hours

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
	dErrors "lobbyreg/pkg/domain-errors"
	"lobbyreg/pkg/testutil"
)

type HoursServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
	entity  domain.EntityID
	now     time.Time
}

func TestHoursServiceSuite(t *testing.T) {
	suite.Run(t, new(HoursServiceSuite))
}

func (s *HoursServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()

	var err error
	s.service, err = New(s.store, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	s.Require().NoError(err)

	s.entity = domain.NewEntityID()
	// Mid Q4 2025.
	s.now = time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)
}

func (s *HoursServiceSuite) log(date time.Time, hrs float64) *ActivityLog {
	entry, err := s.service.Log(context.Background(), s.entity, date, hrs, s.now)
	s.Require().NoError(err)
	return entry
}

func day(d int) time.Time {
	return time.Date(2025, time.November, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// Constructor / Validation
// =============================================================================

func (s *HoursServiceSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
	s.Contains(err.Error(), "hours store is required")
}

func (s *HoursServiceSuite) TestLogValidation() {
	ctx := context.Background()

	s.Run("zero hours rejected", func() {
		_, err := s.service.Log(ctx, s.entity, day(3), 0, s.now)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("negative hours rejected", func() {
		_, err := s.service.Log(ctx, s.entity, day(3), -2, s.now)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("nil entity rejected", func() {
		_, err := s.service.Log(ctx, domain.EntityID{}, day(3), 1, s.now)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Quarter Scoping
// =============================================================================

func (s *HoursServiceSuite) TestCurrentQuarterHours() {
	s.Run("sums only entries inside the current quarter", func() {
		s.log(day(3), 2)
		s.log(day(4), 2.5)
		// Prior quarter entry, chronologically close to the boundary.
		s.log(time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC), 8)

		total, err := s.service.CurrentQuarterHours(context.Background(), s.entity, s.now)
		s.Require().NoError(err)
		s.InDelta(4.5, total, 1e-9)
	})

	s.Run("next-quarter entry excluded even when now is the last day", func() {
		entity := domain.NewEntityID()
		lastDay := time.Date(2025, time.September, 30, 18, 0, 0, 0, time.UTC)
		firstOfNext := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

		_, err := s.service.Log(context.Background(), entity, firstOfNext, 5, lastDay)
		s.Require().NoError(err)

		total, err := s.service.CurrentQuarterHours(context.Background(), entity, lastDay)
		s.Require().NoError(err)
		s.Zero(total)
	})
}

// =============================================================================
// Threshold Crossing
// =============================================================================

func (s *HoursServiceSuite) TestThresholdCrossing() {
	s.Run("4 plus 4 plus 3 crosses on the third day", func() {
		s.log(day(1), 4)
		s.log(day(2), 4)
		s.log(day(3), 3)

		summary, err := s.service.Summarize(context.Background(), s.entity, "unregistered", s.now)
		s.Require().NoError(err)

		s.InDelta(11, summary.TotalHours, 1e-9)
		s.True(summary.ThresholdExceeded)
		s.Zero(summary.HoursUntilThreshold)
		s.Require().NotNil(summary.ThresholdExceededDate)
		s.Equal(day(3), *summary.ThresholdExceededDate)
		s.Require().NotNil(summary.RegistrationDeadline)
		s.Equal(calendar.RegistrationDeadline(day(3)), *summary.RegistrationDeadline)
	})

	s.Run("deadline does not move when more hours are logged", func() {
		s.log(day(1), 4)
		s.log(day(2), 4)
		s.log(day(3), 3)

		first, err := s.service.Summarize(context.Background(), s.entity, "unregistered", s.now)
		s.Require().NoError(err)

		s.log(day(7), 6)
		s.log(day(8), 2)

		second, err := s.service.Summarize(context.Background(), s.entity, "unregistered", s.now)
		s.Require().NoError(err)

		s.Equal(*first.ThresholdExceededDate, *second.ThresholdExceededDate)
		s.Equal(*first.RegistrationDeadline, *second.RegistrationDeadline)
	})

	s.Run("exactly 10 hours does not cross", func() {
		entity := domain.NewEntityID()
		_, err := s.service.Log(context.Background(), entity, day(1), 10, s.now)
		s.Require().NoError(err)

		summary, err := s.service.Summarize(context.Background(), entity, "unregistered", s.now)
		s.Require().NoError(err)
		s.False(summary.ThresholdExceeded)
		s.Nil(summary.ThresholdExceededDate)
		s.Nil(summary.RegistrationDeadline)
	})
}

// =============================================================================
// Summary Semantics
// =============================================================================

func (s *HoursServiceSuite) TestSummarize() {
	s.Run("hours until threshold floors at zero", func() {
		s.log(day(1), 3)

		summary, err := s.service.Summarize(context.Background(), s.entity, "unregistered", s.now)
		s.Require().NoError(err)
		s.InDelta(7, summary.HoursUntilThreshold, 1e-9)
		s.False(summary.ThresholdExceeded)
	})

	s.Run("registration status passes through untouched", func() {
		summary, err := s.service.Summarize(context.Background(), s.entity, "registered", s.now)
		s.Require().NoError(err)
		s.Equal("registered", summary.RegistrationStatus)
	})

	s.Run("recovers crossing for legacy rows without a stored crossing", func() {
		// Write activities directly to the store, bypassing write-time capture.
		entity := domain.NewEntityID()
		ctx := context.Background()
		for i, h := range []float64{4, 4, 3} {
			entry, err := NewActivityLog(entity, day(i+1), h, s.now)
			s.Require().NoError(err)
			s.Require().NoError(s.store.SaveActivity(ctx, entry))
		}

		summary, err := s.service.Summarize(ctx, entity, "unregistered", s.now)
		s.Require().NoError(err)
		s.Require().NotNil(summary.ThresholdExceededDate)
		s.Equal(day(3), *summary.ThresholdExceededDate)

		// The recovered crossing is persisted for deadline stability.
		crossing, err := s.store.GetCrossing(ctx, entity, calendar.PeriodOf(s.now))
		s.Require().NoError(err)
		s.Require().NotNil(crossing)
		s.Equal(day(3), crossing.CrossedOn)
	})
}

func TestThresholdCrossingScenario(t *testing.T) {
	ctx := context.Background()
	entity := domain.NewEntityID()
	now := time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)

	store := NewInMemoryStore()
	service, err := New(store)
	require.NoError(t, err)

	testutil.Given(t, "a lobbyist logging 4h, 4h, and 3h on consecutive days", func(t *testing.T) {
		for i, h := range []float64{4, 4, 3} {
			_, err := service.Log(ctx, entity, day(i+1), h, now)
			require.NoError(t, err)
		}

		testutil.When(t, "the quarter summary is computed", func(t *testing.T) {
			summary, err := service.Summarize(ctx, entity, "unregistered", now)
			require.NoError(t, err)

			testutil.Then(t, "the third entry triggers the registration deadline", func(t *testing.T) {
				assert.Equal(t, 11.0, summary.TotalHours)
				assert.True(t, summary.ThresholdExceeded)
				require.NotNil(t, summary.ThresholdExceededDate)
				assert.Equal(t, day(3), *summary.ThresholdExceededDate)
				require.NotNil(t, summary.RegistrationDeadline)
				assert.Equal(t, calendar.RegistrationDeadline(day(3)), *summary.RegistrationDeadline)
			})
		})
	})
}
