package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusDisbursed LoanStatus = "DISBURSED"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
	LoanStatusCompleted LoanStatus = "COMPLETED"
)

// Loan is the aggregate root of the financing lifecycle. Amount,
// InterestRate and TenureMonths are fixed at creation; every transition
// only moves Status, the running balances and the lifecycle timestamps.
type Loan struct {
	ID                string
	UserID            string
	DeviceID          string // optional until a sale assigns one
	Amount            decimal.Decimal
	InterestRate      decimal.Decimal // annual fraction, e.g. 0.12
	TenureMonths      int
	Status            LoanStatus
	PrincipalPaid     decimal.Decimal
	TotalPaid         decimal.Decimal
	OutstandingAmount decimal.Decimal
	ApprovedAt        *time.Time
	DisbursedAt       *time.Time
	DueDate           *time.Time
	Version           int64 // for optimistic locking
	CreatedAt         time.Time
}

func NewLoan(userID, deviceID string, amount, interestRate decimal.Decimal, tenureMonths int, now time.Time) (*Loan, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !interestRate.IsPositive() {
		return nil, ErrInvalidInterestRate
	}
	if tenureMonths <= 0 {
		return nil, ErrInvalidTenure
	}

	amount = RoundMoney(amount)

	return &Loan{
		ID:                uuid.New().String(),
		UserID:            userID,
		DeviceID:          deviceID,
		Amount:            amount,
		InterestRate:      interestRate,
		TenureMonths:      tenureMonths,
		Status:            LoanStatusPending,
		PrincipalPaid:     decimal.Zero,
		TotalPaid:         decimal.Zero,
		OutstandingAmount: amount,
		Version:           1,
		CreatedAt:         now,
	}, nil
}

// TotalInterest is the flat-rate interest over the full tenure:
// amount * rate * tenure / 12.
func (l *Loan) TotalInterest() decimal.Decimal {
	return FlatInterest(l.Amount, l.InterestRate, l.TenureMonths)
}

// TotalRepayable is principal plus total interest.
func (l *Loan) TotalRepayable() decimal.Decimal {
	return l.Amount.Add(l.TotalInterest())
}

// MonthlyPayment is the equal installment amount. The generated schedule
// is authoritative; this is the per-period figure before remainder
// absorption on the final installment.
func (l *Loan) MonthlyPayment() decimal.Decimal {
	return RoundMoney(l.TotalRepayable().Div(decimal.NewFromInt(int64(l.TenureMonths))))
}

func (l *Loan) Approve(now time.Time) error {
	if l.Status != LoanStatusPending {
		return ErrLoanNotPending
	}
	l.Status = LoanStatusApproved
	l.ApprovedAt = &now
	return nil
}

// Disburse releases the loan. The due date for the full obligation is
// one tenure past disbursement.
func (l *Loan) Disburse(now time.Time) error {
	if l.Status != LoanStatusApproved {
		return ErrLoanNotApproved
	}
	due := now.AddDate(0, l.TenureMonths, 0)
	l.Status = LoanStatusDisbursed
	l.DisbursedAt = &now
	l.DueDate = &due
	return nil
}

// ApplyPayment credits a settled payment against the balances. The
// principal portion is clamped at the outstanding amount so the balance
// never goes negative; TotalPaid always records the full amount received.
// The first payment activates a disbursed loan; reaching zero outstanding
// completes it.
func (l *Loan) ApplyPayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	switch l.Status {
	case LoanStatusDisbursed, LoanStatusActive, LoanStatusDefaulted:
	default:
		return decimal.Zero, ErrLoanNotRepayable
	}

	applied := RoundMoney(amount)
	if applied.GreaterThan(l.OutstandingAmount) {
		applied = l.OutstandingAmount
	}

	l.PrincipalPaid = l.PrincipalPaid.Add(applied)
	l.TotalPaid = l.TotalPaid.Add(RoundMoney(amount))
	l.OutstandingAmount = l.Amount.Sub(l.PrincipalPaid)

	if l.Status == LoanStatusDisbursed {
		l.Status = LoanStatusActive
	}
	if l.OutstandingAmount.IsZero() {
		l.Status = LoanStatusCompleted
	}

	return applied, nil
}

// MarkDefaulted transitions an overdue active loan into collections.
func (l *Loan) MarkDefaulted(now time.Time) error {
	if l.Status != LoanStatusActive {
		return ErrLoanNotActive
	}
	if l.DueDate == nil || !l.DueDate.Before(now) {
		return ErrLoanNotOverdue
	}
	l.Status = LoanStatusDefaulted
	return nil
}

// CanUpdate reports whether non-lifecycle field edits are still allowed.
func (l *Loan) CanUpdate() bool {
	return l.Status != LoanStatusCompleted
}

// EarlyRepaymentQuote prices settling the loan today: the remaining
// principal plus flat interest over the months left, at whole-month
// granularity with no day-level proration.
type EarlyRepaymentQuote struct {
	RemainingPrincipal decimal.Decimal
	RemainingInterest  decimal.Decimal
	TotalAmount        decimal.Decimal
}

func (l *Loan) EarlyRepaymentQuote(now time.Time) (*EarlyRepaymentQuote, error) {
	if l.DisbursedAt == nil {
		return nil, ErrLoanNotDisbursed
	}

	remainingMonths := l.TenureMonths - MonthsBetween(*l.DisbursedAt, now)
	if remainingMonths < 0 {
		remainingMonths = 0
	}

	remainingPrincipal := l.Amount.Sub(l.PrincipalPaid)
	remainingInterest := FlatInterest(remainingPrincipal, l.InterestRate, remainingMonths)

	return &EarlyRepaymentQuote{
		RemainingPrincipal: remainingPrincipal,
		RemainingInterest:  remainingInterest,
		TotalAmount:        remainingPrincipal.Add(remainingInterest),
	}, nil
}
