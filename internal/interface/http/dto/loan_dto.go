package dto

import (
	"errors"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	UserID       string `json:"user_id"`
	DeviceID     string `json:"device_id,omitempty"`
	Amount       string `json:"amount"`
	InterestRate string `json:"interest_rate"`
	TenureMonths int    `json:"tenure_months"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	if r.InterestRate == "" {
		return errors.New("interest_rate is required")
	}
	if r.TenureMonths <= 0 {
		return errors.New("tenure_months must be a positive integer")
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return errors.New("amount must be a valid decimal number")
	}
	if _, err := decimal.NewFromString(r.InterestRate); err != nil {
		return errors.New("interest_rate must be a valid decimal number")
	}
	return nil
}

func (r *CreateLoanRequest) GetAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(r.Amount)
	return amount
}

func (r *CreateLoanRequest) GetInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(r.InterestRate)
	return rate
}

type UpdateLoanRequest struct {
	UserID   *string `json:"user_id,omitempty"`
	DeviceID *string `json:"device_id,omitempty"`
}

type LoanResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	DeviceID       string     `json:"device_id,omitempty"`
	Amount         string     `json:"amount"`
	InterestRate   string     `json:"interest_rate"`
	TenureMonths   int        `json:"tenure_months"`
	Status         string     `json:"status"`
	TotalInterest  string     `json:"total_interest"`
	TotalRepayable string     `json:"total_repayable"`
	MonthlyPayment string     `json:"monthly_payment"`
	PrincipalPaid  string     `json:"principal_paid"`
	TotalPaid      string     `json:"total_paid"`
	Outstanding    string     `json:"outstanding_amount"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	DisbursedAt    *time.Time `json:"disbursed_at,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:             loan.ID,
		UserID:         loan.UserID,
		DeviceID:       loan.DeviceID,
		Amount:         loan.Amount.StringFixed(2),
		InterestRate:   loan.InterestRate.String(),
		TenureMonths:   loan.TenureMonths,
		Status:         string(loan.Status),
		TotalInterest:  loan.TotalInterest().StringFixed(2),
		TotalRepayable: loan.TotalRepayable().StringFixed(2),
		MonthlyPayment: loan.MonthlyPayment().StringFixed(2),
		PrincipalPaid:  loan.PrincipalPaid.StringFixed(2),
		TotalPaid:      loan.TotalPaid.StringFixed(2),
		Outstanding:    loan.OutstandingAmount.StringFixed(2),
		ApprovedAt:     loan.ApprovedAt,
		DisbursedAt:    loan.DisbursedAt,
		DueDate:        loan.DueDate,
		CreatedAt:      loan.CreatedAt,
	}
}

type ScheduleEntryResponse struct {
	Period  int       `json:"period"`
	Type    string    `json:"type"`
	Amount  string    `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

type ScheduleResponse struct {
	LoanID  string                  `json:"loan_id"`
	Total   string                  `json:"total"`
	Charges []ScheduleEntryResponse `json:"charges"`
}

func NewScheduleResponse(loanID string, charges []*domain.LoanCharge) ScheduleResponse {
	entries := make([]ScheduleEntryResponse, len(charges))
	for i, charge := range charges {
		entries[i] = ScheduleEntryResponse{
			Period:  charge.Period,
			Type:    string(charge.Type),
			Amount:  charge.Amount.StringFixed(2),
			DueDate: charge.DueDate,
		}
	}
	return ScheduleResponse{
		LoanID:  loanID,
		Total:   domain.ScheduleTotal(charges).StringFixed(2),
		Charges: entries,
	}
}

type EarlyRepaymentResponse struct {
	LoanID             string `json:"loan_id"`
	RemainingPrincipal string `json:"remaining_principal"`
	RemainingInterest  string `json:"remaining_interest"`
	TotalAmount        string `json:"total_amount"`
}

func NewEarlyRepaymentResponse(loanID string, quote *domain.EarlyRepaymentQuote) EarlyRepaymentResponse {
	return EarlyRepaymentResponse{
		LoanID:             loanID,
		RemainingPrincipal: quote.RemainingPrincipal.StringFixed(2),
		RemainingInterest:  quote.RemainingInterest.StringFixed(2),
		TotalAmount:        quote.TotalAmount.StringFixed(2),
	}
}
