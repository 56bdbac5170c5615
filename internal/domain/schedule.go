package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChargeType string

const ChargeTypeMonthly ChargeType = "MONTHLY"

// LoanCharge is one period of the amortization schedule. The schedule is
// derived from (amount, rate, tenure) once and never mutated afterwards.
type LoanCharge struct {
	ID        string
	LoanID    string
	Period    int // 1-based month index
	Type      ChargeType
	Amount    decimal.Decimal
	DueDate   time.Time
	CreatedAt time.Time
}

// BuildSchedule generates the equal-installment schedule for a loan.
// Installments are split at the money scale with the final period
// absorbing the rounding remainder, so the charges sum to the total
// repayable exactly. Rebuilding with identical inputs yields identical
// amounts.
func BuildSchedule(loan *Loan, start time.Time) []*LoanCharge {
	parts := SplitEvenly(loan.TotalRepayable(), loan.TenureMonths)

	charges := make([]*LoanCharge, len(parts))
	for i, amount := range parts {
		charges[i] = &LoanCharge{
			ID:        uuid.New().String(),
			LoanID:    loan.ID,
			Period:    i + 1,
			Type:      ChargeTypeMonthly,
			Amount:    amount,
			DueDate:   start.AddDate(0, i+1, 0),
			CreatedAt: start,
		}
	}

	return charges
}

// ScheduleTotal sums the period charges; used to check the schedule
// against the loan's total repayable.
func ScheduleTotal(charges []*LoanCharge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return total
}
