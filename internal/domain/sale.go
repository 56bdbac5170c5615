package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
)

// Sale is the dual-party handshake that turns an approved loan into a
// disbursed, device-assigned one. Both the customer and the agent hold a
// single-use OTP minted at creation; the sale completes only once both
// codes have been presented.
type Sale struct {
	ID                string
	LoanID            string
	AgentID           string
	ShopID            string
	DeviceIMEI        string
	DepositAmount     decimal.Decimal
	CustomerOTP       string
	AgentOTP          string
	CustomerConfirmed bool
	AgentConfirmed    bool
	Status            SaleStatus
	CompletedAt       *time.Time
	CreatedAt         time.Time
}

func NewSale(loanID, agentID, shopID, deviceIMEI string, depositAmount decimal.Decimal, now time.Time) (*Sale, error) {
	if loanID == "" {
		return nil, ErrLoanNotFound
	}
	if agentID == "" {
		return nil, ErrAgentNotFound
	}
	if deviceIMEI == "" {
		return nil, ErrInvalidIMEI
	}
	if depositAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	customerOTP, err := MintOTP()
	if err != nil {
		return nil, err
	}
	agentOTP, err := MintOTP()
	if err != nil {
		return nil, err
	}

	return &Sale{
		ID:            uuid.New().String(),
		LoanID:        loanID,
		AgentID:       agentID,
		ShopID:        shopID,
		DeviceIMEI:    deviceIMEI,
		DepositAmount: RoundMoney(depositAmount),
		CustomerOTP:   customerOTP,
		AgentOTP:      agentOTP,
		Status:        SaleStatusPending,
		CreatedAt:     now,
	}, nil
}

// Confirm records one party's OTP. Confirmation is tracked across calls;
// the sale completes on the call that leaves both parties confirmed.
// When customer and agent happen to hold the same code, a single
// presentation confirms both parties.
func (s *Sale) Confirm(otp string, now time.Time) (bool, error) {
	if s.Status != SaleStatusPending {
		return false, ErrSaleNotPending
	}

	matched := false
	if otp == s.CustomerOTP {
		s.CustomerConfirmed = true
		matched = true
	}
	if otp == s.AgentOTP {
		s.AgentConfirmed = true
		matched = true
	}
	if !matched {
		return false, ErrInvalidOTP
	}

	if s.CustomerConfirmed && s.AgentConfirmed {
		s.Status = SaleStatusCompleted
		s.CompletedAt = &now
		return true, nil
	}

	return false, nil
}

func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// MintOTP generates a six-digit single-use code.
func MintOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to mint OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
