package service

import (
	"context"
	"testing"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSaleService(f *fixture) *SaleService {
	return NewSaleService(f.sales, f.loans, f.devices, f.agents, f.shops, f.uow, nil, f.clock, zap.NewNop())
}

type saleSetup struct {
	loan   *domain.Loan
	device *domain.Device
	agent  *domain.Agent
}

func newApprovedSaleSetup(t *testing.T, f *fixture) saleSetup {
	t.Helper()
	ctx := context.Background()

	loan, err := domain.NewLoan("user-1", "", decimal.RequireFromString("1000"),
		decimal.RequireFromString("0.12"), 12, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, loan.Approve(f.clock.Now()))
	require.NoError(t, f.loans.Create(ctx, loan))

	device, err := domain.NewDevice("356938035643801", "Galaxy A15", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.devices.Create(ctx, device))

	agent := domain.NewAgent("Ada Obi", "+2348000000000", decimal.RequireFromString("0.05"), f.clock.Now())
	require.NoError(t, f.agents.Create(ctx, agent))

	return saleSetup{loan: loan, device: device, agent: agent}
}

func TestCreateSale_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusPending, sale.Status)
	assert.False(t, sale.CustomerConfirmed)
	assert.False(t, sale.AgentConfirmed)
	assert.Len(t, sale.CustomerOTP, 6)
	assert.Len(t, sale.AgentOTP, 6)
}

func TestCreateSale_RequiresApprovedLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	pending, err := domain.NewLoan("user-2", "", decimal.RequireFromString("500"),
		decimal.RequireFromString("0.12"), 6, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.loans.Create(ctx, pending))

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        pending.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("100"),
	})

	assert.ErrorIs(t, err, domain.ErrLoanNotApproved)
	assert.Nil(t, sale)
}

func TestCreateSale_RejectsSoldDevice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	require.NoError(t, setup.device.MarkSold())
	require.NoError(t, f.devices.Save(ctx, setup.device))

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})

	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
	assert.Nil(t, sale)
}

func TestCreateSale_RejectsReservedDevice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	require.NoError(t, setup.device.AssignToShop("shop-1"))
	require.NoError(t, f.devices.Save(ctx, setup.device))

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})

	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
	assert.Nil(t, sale)
}

func TestVerifyOtp_FirstConfirmationLeavesSalePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	// Distinct codes so one presentation confirms exactly one party.
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"

	result, err := service.VerifyOtp(ctx, sale.ID, "111111")
	require.NoError(t, err)
	assert.False(t, result.Completed)

	stored, err := f.sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusPending, stored.Status)
	assert.True(t, stored.CustomerConfirmed)
	assert.False(t, stored.AgentConfirmed)

	// No side effects yet.
	loan, err := f.loans.FindByID(ctx, setup.loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)

	device, err := f.devices.FindByID(ctx, setup.device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusAvailable, device.Status)
}

func TestVerifyOtp_SecondConfirmationCompletesSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"

	_, err = service.VerifyOtp(ctx, sale.ID, "222222")
	require.NoError(t, err)

	result, err := service.VerifyOtp(ctx, sale.ID, "111111")
	require.NoError(t, err)
	assert.True(t, result.Completed)

	stored, err := f.sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	device, err := f.devices.FindByID(ctx, setup.device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusSold, device.Status)

	loan, err := f.loans.FindByID(ctx, setup.loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDisbursed, loan.Status)
	assert.Equal(t, setup.device.ID, loan.DeviceID)
	require.NotNil(t, loan.DueDate)

	agent, err := f.agents.FindByID(ctx, setup.agent.ID)
	require.NoError(t, err)
	assert.True(t, agent.CommissionEarned.Equal(decimal.RequireFromString("10")),
		"5%% of the 200 deposit: got %s", agent.CommissionEarned)
	assert.True(t, agent.CommissionRate.Equal(decimal.RequireFromString("0.05")),
		"commission rate must not drift on accrual")
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"

	result, err := service.VerifyOtp(ctx, sale.ID, "999999")
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	assert.Nil(t, result)
}

func TestVerifyOtp_RejectedAfterCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	setup := newApprovedSaleSetup(t, f)
	service := newSaleService(f)

	sale, err := service.CreateSale(ctx, CreateSaleRequest{
		LoanID:        setup.loan.ID,
		AgentID:       setup.agent.ID,
		DeviceIMEI:    setup.device.IMEI,
		DepositAmount: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	sale.CustomerOTP = "111111"
	sale.AgentOTP = "222222"

	_, err = service.VerifyOtp(ctx, sale.ID, "111111")
	require.NoError(t, err)
	_, err = service.VerifyOtp(ctx, sale.ID, "222222")
	require.NoError(t, err)

	_, err = service.VerifyOtp(ctx, sale.ID, "111111")
	assert.ErrorIs(t, err, domain.ErrSaleNotPending)
}

func TestRegisterAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newSaleService(f)

	agent, err := service.RegisterAgent(ctx, "Tunde Bakare", "+2348111111111", decimal.RequireFromString("0.04"))
	require.NoError(t, err)
	assert.True(t, agent.CommissionEarned.IsZero())

	stored, err := f.agents.FindByID(ctx, agent.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Tunde Bakare", stored.Name)
}
