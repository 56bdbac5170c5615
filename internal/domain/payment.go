package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodMpesa        PaymentMethod = "MPESA"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// Payment is a repayment attempt against a loan. TransactionRef is the
// external idempotency key: at most one payment record exists per
// reference, and the record settles exactly once.
type Payment struct {
	ID             string
	LoanID         string
	UserID         string
	Amount         decimal.Decimal
	Method         PaymentMethod
	TransactionRef string
	ReceiptNumber  string // external receipt, set on successful settlement
	Status         PaymentStatus
	PaidAt         *time.Time
	CreatedAt      time.Time
}

func NewPayment(loanID, userID string, amount decimal.Decimal, method PaymentMethod, transactionRef string, now time.Time) (*Payment, error) {
	if loanID == "" {
		return nil, ErrLoanNotFound
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if transactionRef == "" {
		return nil, ErrInvalidTransactionRef
	}

	return &Payment{
		ID:             uuid.New().String(),
		LoanID:         loanID,
		UserID:         userID,
		Amount:         RoundMoney(amount),
		Method:         method,
		TransactionRef: transactionRef,
		Status:         PaymentStatusPending,
		CreatedAt:      now,
	}, nil
}

// Settle records the outcome reported by the payment gateway. A payment
// leaves PENDING exactly once; later deliveries of the same reference
// must be detected by the caller via IsSettled and ignored.
func (p *Payment) Settle(succeeded bool, receiptNumber string, now time.Time) error {
	if p.Status != PaymentStatusPending {
		return ErrPaymentSettled
	}

	if succeeded {
		p.Status = PaymentStatusCompleted
		p.ReceiptNumber = receiptNumber
		p.PaidAt = &now
	} else {
		p.Status = PaymentStatusFailed
	}

	return nil
}

func (p *Payment) IsSettled() bool {
	return p.Status != PaymentStatusPending
}
