package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Agent is a field sales agent. CommissionRate is the fraction of the
// deposit earned per completed sale; CommissionEarned is the accrued
// balance. The two are never mixed.
type Agent struct {
	ID               string
	Name             string
	Phone            string
	CommissionRate   decimal.Decimal
	CommissionEarned decimal.Decimal
	CreatedAt        time.Time
}

func NewAgent(name, phone string, commissionRate decimal.Decimal, now time.Time) *Agent {
	return &Agent{
		ID:               uuid.New().String(),
		Name:             name,
		Phone:            phone,
		CommissionRate:   commissionRate,
		CommissionEarned: decimal.Zero,
		CreatedAt:        now,
	}
}

// AccrueCommission credits deposit * rate to the earned balance and
// returns the credited amount.
func (a *Agent) AccrueCommission(depositAmount decimal.Decimal) decimal.Decimal {
	commission := RoundMoney(depositAmount.Mul(a.CommissionRate))
	a.CommissionEarned = a.CommissionEarned.Add(commission)
	return commission
}

// Shop is a retail outlet where agents sell devices.
type Shop struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}

func NewShop(name, location string, now time.Time) *Shop {
	return &Shop{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  location,
		CreatedAt: now,
	}
}
