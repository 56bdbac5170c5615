package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T, amount string, rate string, tenure int) *Loan {
	t.Helper()
	loan, err := NewLoan("user-1", "", decimal.RequireFromString(amount), decimal.RequireFromString(rate), tenure, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return loan
}

func TestNewLoan_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewLoan("", "", decimal.NewFromInt(1000), decimal.RequireFromString("0.12"), 12, now)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewLoan("user-1", "", decimal.Zero, decimal.RequireFromString("0.12"), 12, now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewLoan("user-1", "", decimal.NewFromInt(1000), decimal.Zero, 12, now)
	assert.ErrorIs(t, err, ErrInvalidInterestRate)

	_, err = NewLoan("user-1", "", decimal.NewFromInt(1000), decimal.RequireFromString("0.12"), 0, now)
	assert.ErrorIs(t, err, ErrInvalidTenure)
}

func TestLoan_FlatRateTotals(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)

	assert.True(t, loan.TotalInterest().Equal(decimal.NewFromInt(120)), "interest = 1000*0.12*12/12")
	assert.True(t, loan.TotalRepayable().Equal(decimal.NewFromInt(1120)))
	assert.True(t, loan.MonthlyPayment().Equal(decimal.RequireFromString("93.33")))
}

func TestLoan_ApproveThenDisburse(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, loan.Approve(now))
	assert.Equal(t, LoanStatusApproved, loan.Status)
	require.NotNil(t, loan.ApprovedAt)

	require.NoError(t, loan.Disburse(now))
	assert.Equal(t, LoanStatusDisbursed, loan.Status)
	require.NotNil(t, loan.DisbursedAt)
	require.NotNil(t, loan.DueDate)
	assert.Equal(t, now.AddDate(0, 12, 0), *loan.DueDate)
}

func TestLoan_ApproveTwiceFails(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)
	now := time.Now()

	require.NoError(t, loan.Approve(now))
	assert.ErrorIs(t, loan.Approve(now), ErrLoanNotPending)
}

func TestLoan_DisburseWhilePendingFails(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)

	assert.ErrorIs(t, loan.Disburse(time.Now()), ErrLoanNotApproved)
	assert.Equal(t, LoanStatusPending, loan.Status)
}

func TestLoan_ApplyPayment_BalanceInvariant(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)
	now := time.Now()
	require.NoError(t, loan.Approve(now))
	require.NoError(t, loan.Disburse(now))

	amounts := []string{"93.33", "250", "0.01", "106.66"}
	for _, a := range amounts {
		_, err := loan.ApplyPayment(decimal.RequireFromString(a))
		require.NoError(t, err)

		// outstanding == amount - principalPaid after every application
		assert.True(t, loan.OutstandingAmount.Equal(loan.Amount.Sub(loan.PrincipalPaid)),
			"outstanding %s != amount %s - principalPaid %s", loan.OutstandingAmount, loan.Amount, loan.PrincipalPaid)
		assert.False(t, loan.OutstandingAmount.IsNegative())
		assert.True(t, loan.TotalPaid.GreaterThanOrEqual(loan.PrincipalPaid))
	}
}

func TestLoan_ApplyPayment_ActivatesAndCompletes(t *testing.T) {
	loan := newTestLoan(t, "500", "0.10", 6)
	now := time.Now()
	require.NoError(t, loan.Approve(now))
	require.NoError(t, loan.Disburse(now))

	_, err := loan.ApplyPayment(decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, LoanStatusActive, loan.Status, "first payment activates a disbursed loan")

	_, err = loan.ApplyPayment(decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.True(t, loan.OutstandingAmount.IsZero())
}

func TestLoan_ApplyPayment_OverpaymentClamped(t *testing.T) {
	loan := newTestLoan(t, "100", "0.10", 3)
	now := time.Now()
	require.NoError(t, loan.Approve(now))
	require.NoError(t, loan.Disburse(now))

	applied, err := loan.ApplyPayment(decimal.NewFromInt(150))
	require.NoError(t, err)

	assert.True(t, applied.Equal(decimal.NewFromInt(100)), "principal portion clamps at outstanding")
	assert.True(t, loan.OutstandingAmount.IsZero())
	assert.True(t, loan.PrincipalPaid.Equal(decimal.NewFromInt(100)))
	assert.True(t, loan.TotalPaid.Equal(decimal.NewFromInt(150)), "total paid records the full amount")
	assert.Equal(t, LoanStatusCompleted, loan.Status)
}

func TestLoan_ApplyPayment_RejectsWrongStatus(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)

	_, err := loan.ApplyPayment(decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrLoanNotRepayable, "pending loans cannot take payments")

	require.NoError(t, loan.Approve(time.Now()))
	_, err = loan.ApplyPayment(decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrLoanNotRepayable, "approved but undisbursed loans cannot take payments")
}

func TestLoan_MarkDefaulted(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 6)
	disbursedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, loan.Approve(disbursedAt))
	require.NoError(t, loan.Disburse(disbursedAt))
	_, err := loan.ApplyPayment(decimal.NewFromInt(100))
	require.NoError(t, err)

	// Due date is 2024-07-01; not yet overdue.
	assert.ErrorIs(t, loan.MarkDefaulted(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)), ErrLoanNotOverdue)

	require.NoError(t, loan.MarkDefaulted(time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, LoanStatusDefaulted, loan.Status)
}

func TestLoan_MarkDefaulted_RequiresActive(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 6)
	assert.ErrorIs(t, loan.MarkDefaulted(time.Now()), ErrLoanNotActive)
}

func TestLoan_EarlyRepaymentQuote(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)
	disbursedAt := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, loan.Approve(disbursedAt))
	require.NoError(t, loan.Disburse(disbursedAt))

	// Six whole months later, nothing repaid:
	// remainingInterest = 1000 * 0.12 * 6 / 12 = 60.
	quote, err := loan.EarlyRepaymentQuote(time.Date(2024, 7, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, quote.RemainingPrincipal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, quote.RemainingInterest.Equal(decimal.NewFromInt(60)))
	assert.True(t, quote.TotalAmount.Equal(decimal.NewFromInt(1060)))
}

func TestLoan_EarlyRepaymentQuote_NotDisbursed(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 12)

	_, err := loan.EarlyRepaymentQuote(time.Now())
	assert.ErrorIs(t, err, ErrLoanNotDisbursed)
}

func TestLoan_EarlyRepaymentQuote_PastTenure(t *testing.T) {
	loan := newTestLoan(t, "1000", "0.12", 6)
	disbursedAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, loan.Approve(disbursedAt))
	require.NoError(t, loan.Disburse(disbursedAt))

	// Two years later the interest term clamps at zero months.
	quote, err := loan.EarlyRepaymentQuote(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, quote.RemainingInterest.IsZero())
	assert.True(t, quote.TotalAmount.Equal(quote.RemainingPrincipal))
}

func TestLoan_CanUpdate(t *testing.T) {
	loan := newTestLoan(t, "100", "0.10", 2)
	assert.True(t, loan.CanUpdate())

	now := time.Now()
	require.NoError(t, loan.Approve(now))
	require.NoError(t, loan.Disburse(now))
	_, err := loan.ApplyPayment(decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.False(t, loan.CanUpdate())
}
