package dto

import (
	"errors"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	LoanID        string `json:"loan_id"`
	AgentID       string `json:"agent_id"`
	ShopID        string `json:"shop_id,omitempty"`
	DeviceIMEI    string `json:"device_imei"`
	DepositAmount string `json:"deposit_amount"`
}

func (r *CreateSaleRequest) Validate() error {
	if r.LoanID == "" {
		return errors.New("loan_id is required")
	}
	if r.AgentID == "" {
		return errors.New("agent_id is required")
	}
	if r.DeviceIMEI == "" {
		return errors.New("device_imei is required")
	}
	if r.DepositAmount == "" {
		return errors.New("deposit_amount is required")
	}
	if _, err := decimal.NewFromString(r.DepositAmount); err != nil {
		return errors.New("deposit_amount must be a valid decimal number")
	}
	return nil
}

func (r *CreateSaleRequest) GetDepositAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(r.DepositAmount)
	return amount
}

type VerifyOtpRequest struct {
	OTP string `json:"otp"`
}

func (r *VerifyOtpRequest) Validate() error {
	if r.OTP == "" {
		return errors.New("otp is required")
	}
	return nil
}

// SaleResponse never carries the OTP values; they reach the parties
// over SMS only.
type SaleResponse struct {
	ID                string     `json:"id"`
	LoanID            string     `json:"loan_id"`
	AgentID           string     `json:"agent_id"`
	ShopID            string     `json:"shop_id,omitempty"`
	DeviceIMEI        string     `json:"device_imei"`
	DepositAmount     string     `json:"deposit_amount"`
	CustomerConfirmed bool       `json:"customer_confirmed"`
	AgentConfirmed    bool       `json:"agent_confirmed"`
	Status            string     `json:"status"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewSaleResponse(sale *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:                sale.ID,
		LoanID:            sale.LoanID,
		AgentID:           sale.AgentID,
		ShopID:            sale.ShopID,
		DeviceIMEI:        sale.DeviceIMEI,
		DepositAmount:     sale.DepositAmount.StringFixed(2),
		CustomerConfirmed: sale.CustomerConfirmed,
		AgentConfirmed:    sale.AgentConfirmed,
		Status:            string(sale.Status),
		CompletedAt:       sale.CompletedAt,
		CreatedAt:         sale.CreatedAt,
	}
}

type VerifyOtpResponse struct {
	Completed bool         `json:"completed"`
	Sale      SaleResponse `json:"sale"`
}

type RegisterAgentRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	CommissionRate string `json:"commission_rate"`
}

func (r *RegisterAgentRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.CommissionRate == "" {
		return errors.New("commission_rate is required")
	}
	rate, err := decimal.NewFromString(r.CommissionRate)
	if err != nil {
		return errors.New("commission_rate must be a valid decimal number")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("commission_rate must be between 0 and 1")
	}
	return nil
}

func (r *RegisterAgentRequest) GetCommissionRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(r.CommissionRate)
	return rate
}

type AgentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone,omitempty"`
	CommissionRate   string    `json:"commission_rate"`
	CommissionEarned string    `json:"commission_earned"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:               agent.ID,
		Name:             agent.Name,
		Phone:            agent.Phone,
		CommissionRate:   agent.CommissionRate.String(),
		CommissionEarned: agent.CommissionEarned.StringFixed(2),
		CreatedAt:        agent.CreatedAt,
	}
}
