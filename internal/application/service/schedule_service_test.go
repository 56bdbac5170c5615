package service

import (
	"context"
	"testing"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScheduleService(f *fixture) *ScheduleService {
	return NewScheduleService(f.loans, f.schedule, f.clock, zap.NewNop())
}

func TestHandleScheduleRequested_GeneratesSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newScheduleService(f)

	loan, err := domain.NewLoan("user-1", "", decimal.RequireFromString("1000"),
		decimal.RequireFromString("0.12"), 12, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.loans.Create(ctx, loan))

	err = service.HandleScheduleRequested(ctx, domain.NewScheduleRequestedEvent(loan))
	require.NoError(t, err)

	charges, err := f.schedule.FindByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, charges, 12)
	assert.True(t, domain.ScheduleTotal(charges).Equal(loan.TotalRepayable()),
		"schedule must sum to the total repayable")
}

func TestHandleScheduleRequested_SkipsExistingSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newScheduleService(f)

	loan, err := domain.NewLoan("user-1", "", decimal.RequireFromString("1000"),
		decimal.RequireFromString("0.12"), 12, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.loans.Create(ctx, loan))

	event := domain.NewScheduleRequestedEvent(loan)
	require.NoError(t, service.HandleScheduleRequested(ctx, event))
	require.NoError(t, service.HandleScheduleRequested(ctx, event))

	charges, err := f.schedule.FindByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, charges, 12, "redelivered event must not duplicate the schedule")
}

func TestHandleScheduleRequested_UnknownLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newScheduleService(f)

	loan, err := domain.NewLoan("user-1", "", decimal.RequireFromString("1000"),
		decimal.RequireFromString("0.12"), 12, f.clock.Now())
	require.NoError(t, err)

	err = service.HandleScheduleRequested(ctx, domain.NewScheduleRequestedEvent(loan))
	assert.Error(t, err)
}
