package dto

import (
	"errors"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	LoanID         string `json:"loan_id"`
	Amount         string `json:"amount"`
	Method         string `json:"method"`
	TransactionRef string `json:"transaction_ref"`
}

func (r *CreatePaymentRequest) Validate() error {
	if r.LoanID == "" {
		return errors.New("loan_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	if r.TransactionRef == "" {
		return errors.New("transaction_ref is required")
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return errors.New("amount must be a valid decimal number")
	}

	switch domain.PaymentMethod(r.Method) {
	case domain.PaymentMethodMpesa, domain.PaymentMethodCard, domain.PaymentMethodBankTransfer:
	default:
		return errors.New("method must be one of MPESA, CARD, BANK_TRANSFER")
	}

	return nil
}

func (r *CreatePaymentRequest) GetAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(r.Amount)
	return amount
}

// SettlementCallbackRequest is the gateway's webhook body.
type SettlementCallbackRequest struct {
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
	ReceiptNumber  string `json:"receipt_number,omitempty"`
}

func (r *SettlementCallbackRequest) Validate() error {
	if r.TransactionRef == "" {
		return errors.New("transaction_ref is required")
	}
	if r.Status != "SUCCESS" && r.Status != "FAILED" {
		return errors.New("status must be SUCCESS or FAILED")
	}
	return nil
}

func (r *SettlementCallbackRequest) Succeeded() bool {
	return r.Status == "SUCCESS"
}

type PaymentResponse struct {
	ID             string     `json:"id"`
	LoanID         string     `json:"loan_id"`
	UserID         string     `json:"user_id"`
	Amount         string     `json:"amount"`
	Method         string     `json:"method"`
	TransactionRef string     `json:"transaction_ref"`
	ReceiptNumber  string     `json:"receipt_number,omitempty"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		LoanID:         payment.LoanID,
		UserID:         payment.UserID,
		Amount:         payment.Amount.StringFixed(2),
		Method:         string(payment.Method),
		TransactionRef: payment.TransactionRef,
		ReceiptNumber:  payment.ReceiptNumber,
		Status:         string(payment.Status),
		PaidAt:         payment.PaidAt,
		CreatedAt:      payment.CreatedAt,
	}
}

func NewPaymentListResponse(payments []*domain.Payment) []PaymentResponse {
	response := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		response[i] = NewPaymentResponse(payment)
	}
	return response
}
