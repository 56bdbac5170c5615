package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale("loan-1", "agent-1", "shop-1", "356938035643809", decimal.NewFromInt(200), time.Now())
	require.NoError(t, err)
	return sale
}

func TestNewSale_MintsDistinctSingleUseOTPs(t *testing.T) {
	sale := newTestSale(t)

	assert.Len(t, sale.CustomerOTP, 6)
	assert.Len(t, sale.AgentOTP, 6)
	assert.Equal(t, SaleStatusPending, sale.Status)
	assert.False(t, sale.CustomerConfirmed)
	assert.False(t, sale.AgentConfirmed)
}

func TestSale_Confirm_DualPartyAcrossCalls(t *testing.T) {
	sale := newTestSale(t)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"
	now := time.Now()

	completed, err := sale.Confirm("111111", now)
	require.NoError(t, err)
	assert.False(t, completed, "one confirmation keeps the sale pending")
	assert.Equal(t, SaleStatusPending, sale.Status)
	assert.True(t, sale.CustomerConfirmed)
	assert.False(t, sale.AgentConfirmed)
	assert.Nil(t, sale.CompletedAt)

	completed, err = sale.Confirm("222222", now)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, SaleStatusCompleted, sale.Status)
	require.NotNil(t, sale.CompletedAt)
}

func TestSale_Confirm_OrderDoesNotMatter(t *testing.T) {
	sale := newTestSale(t)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"
	now := time.Now()

	completed, err := sale.Confirm("222222", now)
	require.NoError(t, err)
	assert.False(t, completed)

	completed, err = sale.Confirm("111111", now)
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestSale_Confirm_InvalidOTP(t *testing.T) {
	sale := newTestSale(t)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"

	_, err := sale.Confirm("999999", time.Now())
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.Equal(t, SaleStatusPending, sale.Status)
	assert.False(t, sale.CustomerConfirmed)
}

func TestSale_Confirm_EqualOTPsCompleteInOneCall(t *testing.T) {
	sale := newTestSale(t)
	sale.CustomerOTP = "333333"
	sale.AgentOTP = "333333"

	completed, err := sale.Confirm("333333", time.Now())
	require.NoError(t, err)
	assert.True(t, completed, "a code held by both parties confirms both")
	assert.True(t, sale.CustomerConfirmed)
	assert.True(t, sale.AgentConfirmed)
}

func TestSale_Confirm_RejectedAfterCompletion(t *testing.T) {
	sale := newTestSale(t)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"
	now := time.Now()

	_, err := sale.Confirm("111111", now)
	require.NoError(t, err)
	_, err = sale.Confirm("222222", now)
	require.NoError(t, err)

	_, err = sale.Confirm("111111", now)
	assert.ErrorIs(t, err, ErrSaleNotPending)
}

func TestNewSale_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewSale("", "agent-1", "shop-1", "356938035643809", decimal.NewFromInt(200), now)
	assert.ErrorIs(t, err, ErrLoanNotFound)

	_, err = NewSale("loan-1", "", "shop-1", "356938035643809", decimal.NewFromInt(200), now)
	assert.ErrorIs(t, err, ErrAgentNotFound)

	_, err = NewSale("loan-1", "agent-1", "shop-1", "", decimal.NewFromInt(200), now)
	assert.ErrorIs(t, err, ErrInvalidIMEI)

	_, err = NewSale("loan-1", "agent-1", "shop-1", "356938035643809", decimal.NewFromInt(-1), now)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAgent_AccrueCommission(t *testing.T) {
	agent := NewAgent("Jane", "+254700000001", decimal.RequireFromString("0.05"), time.Now())

	commission := agent.AccrueCommission(decimal.NewFromInt(200))

	assert.True(t, commission.Equal(decimal.NewFromInt(10)))
	assert.True(t, agent.CommissionEarned.Equal(decimal.NewFromInt(10)))
	// The rate itself never moves.
	assert.True(t, agent.CommissionRate.Equal(decimal.RequireFromString("0.05")))

	agent.AccrueCommission(decimal.NewFromInt(100))
	assert.True(t, agent.CommissionEarned.Equal(decimal.NewFromInt(15)))
}

func TestDevice_Lifecycle(t *testing.T) {
	device, err := NewDevice("356938035643809", "Samsung A14", time.Now())
	require.NoError(t, err)
	assert.Equal(t, DeviceStatusAvailable, device.Status)
	assert.Equal(t, LockStatusUnlocked, device.LockStatus)

	require.NoError(t, device.AssignToShop("shop-1"))
	assert.Equal(t, DeviceStatusReserved, device.Status)

	assert.ErrorIs(t, device.AssignToShop("shop-2"), ErrDeviceUnavailable)

	require.NoError(t, device.MarkSold())
	assert.Equal(t, DeviceStatusSold, device.Status)
	assert.ErrorIs(t, device.MarkSold(), ErrDeviceUnavailable)
	assert.False(t, device.CanUpdate())

	// Lock status is an independent axis.
	device.SetLockStatus(true)
	assert.Equal(t, LockStatusLocked, device.LockStatus)
	assert.Equal(t, DeviceStatusSold, device.Status)
	device.SetLockStatus(false)
	assert.Equal(t, LockStatusUnlocked, device.LockStatus)
}
