package persistence

import (
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanModel represents the database schema for loans
type LoanModel struct {
	ID                string          `gorm:"primaryKey;type:varchar(50)"`
	UserID            string          `gorm:"type:varchar(50);not null;index"`
	DeviceID          string          `gorm:"type:varchar(50);index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(10,6);not null"`
	TenureMonths      int             `gorm:"not null"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	PrincipalPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPaid         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ApprovedAt        *time.Time
	DisbursedAt       *time.Time
	DueDate           *time.Time `gorm:"index"`
	Version           int64      `gorm:"not null;default:1"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (LoanModel) TableName() string {
	return "loans"
}

func (m *LoanModel) ToDomain() *domain.Loan {
	return &domain.Loan{
		ID:                m.ID,
		UserID:            m.UserID,
		DeviceID:          m.DeviceID,
		Amount:            m.Amount,
		InterestRate:      m.InterestRate,
		TenureMonths:      m.TenureMonths,
		Status:            domain.LoanStatus(m.Status),
		PrincipalPaid:     m.PrincipalPaid,
		TotalPaid:         m.TotalPaid,
		OutstandingAmount: m.OutstandingAmount,
		ApprovedAt:        m.ApprovedAt,
		DisbursedAt:       m.DisbursedAt,
		DueDate:           m.DueDate,
		Version:           m.Version,
		CreatedAt:         m.CreatedAt,
	}
}

func LoanModelFromDomain(loan *domain.Loan) *LoanModel {
	return &LoanModel{
		ID:                loan.ID,
		UserID:            loan.UserID,
		DeviceID:          loan.DeviceID,
		Amount:            loan.Amount,
		InterestRate:      loan.InterestRate,
		TenureMonths:      loan.TenureMonths,
		Status:            string(loan.Status),
		PrincipalPaid:     loan.PrincipalPaid,
		TotalPaid:         loan.TotalPaid,
		OutstandingAmount: loan.OutstandingAmount,
		ApprovedAt:        loan.ApprovedAt,
		DisbursedAt:       loan.DisbursedAt,
		DueDate:           loan.DueDate,
		Version:           loan.Version,
		CreatedAt:         loan.CreatedAt,
	}
}

// LoanChargeModel represents the database schema for amortization periods
type LoanChargeModel struct {
	ID        string          `gorm:"primaryKey;type:varchar(50)"`
	LoanID    string          `gorm:"type:varchar(50);not null;index:idx_loan_period,unique"`
	Period    int             `gorm:"not null;index:idx_loan_period,unique"`
	Type      string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate   time.Time       `gorm:"not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (LoanChargeModel) TableName() string {
	return "loan_charges"
}

func (m *LoanChargeModel) ToDomain() *domain.LoanCharge {
	return &domain.LoanCharge{
		ID:        m.ID,
		LoanID:    m.LoanID,
		Period:    m.Period,
		Type:      domain.ChargeType(m.Type),
		Amount:    m.Amount,
		DueDate:   m.DueDate,
		CreatedAt: m.CreatedAt,
	}
}

func LoanChargeModelFromDomain(charge *domain.LoanCharge) *LoanChargeModel {
	return &LoanChargeModel{
		ID:        charge.ID,
		LoanID:    charge.LoanID,
		Period:    charge.Period,
		Type:      string(charge.Type),
		Amount:    charge.Amount,
		DueDate:   charge.DueDate,
		CreatedAt: charge.CreatedAt,
	}
}

// PaymentModel represents the database schema for payments
type PaymentModel struct {
	ID             string          `gorm:"primaryKey;type:varchar(50)"`
	LoanID         string          `gorm:"type:varchar(50);not null;index"`
	UserID         string          `gorm:"type:varchar(50);not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method         string          `gorm:"type:varchar(20);not null"`
	TransactionRef string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	ReceiptNumber  string          `gorm:"type:varchar(100)"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (m *PaymentModel) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:             m.ID,
		LoanID:         m.LoanID,
		UserID:         m.UserID,
		Amount:         m.Amount,
		Method:         domain.PaymentMethod(m.Method),
		TransactionRef: m.TransactionRef,
		ReceiptNumber:  m.ReceiptNumber,
		Status:         domain.PaymentStatus(m.Status),
		PaidAt:         m.PaidAt,
		CreatedAt:      m.CreatedAt,
	}
}

func PaymentModelFromDomain(payment *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:             payment.ID,
		LoanID:         payment.LoanID,
		UserID:         payment.UserID,
		Amount:         payment.Amount,
		Method:         string(payment.Method),
		TransactionRef: payment.TransactionRef,
		ReceiptNumber:  payment.ReceiptNumber,
		Status:         string(payment.Status),
		PaidAt:         payment.PaidAt,
		CreatedAt:      payment.CreatedAt,
	}
}

// SaleModel represents the database schema for sales
type SaleModel struct {
	ID                string          `gorm:"primaryKey;type:varchar(50)"`
	LoanID            string          `gorm:"type:varchar(50);not null;index"`
	AgentID           string          `gorm:"type:varchar(50);not null;index"`
	ShopID            string          `gorm:"type:varchar(50);index"`
	DeviceIMEI        string          `gorm:"type:varchar(20);not null;index"`
	DepositAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CustomerOTP       string          `gorm:"type:varchar(10);not null"`
	AgentOTP          string          `gorm:"type:varchar(10);not null"`
	CustomerConfirmed bool            `gorm:"not null;default:false"`
	AgentConfirmed    bool            `gorm:"not null;default:false"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	CompletedAt       *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (SaleModel) TableName() string {
	return "sales"
}

func (m *SaleModel) ToDomain() *domain.Sale {
	return &domain.Sale{
		ID:                m.ID,
		LoanID:            m.LoanID,
		AgentID:           m.AgentID,
		ShopID:            m.ShopID,
		DeviceIMEI:        m.DeviceIMEI,
		DepositAmount:     m.DepositAmount,
		CustomerOTP:       m.CustomerOTP,
		AgentOTP:          m.AgentOTP,
		CustomerConfirmed: m.CustomerConfirmed,
		AgentConfirmed:    m.AgentConfirmed,
		Status:            domain.SaleStatus(m.Status),
		CompletedAt:       m.CompletedAt,
		CreatedAt:         m.CreatedAt,
	}
}

func SaleModelFromDomain(sale *domain.Sale) *SaleModel {
	return &SaleModel{
		ID:                sale.ID,
		LoanID:            sale.LoanID,
		AgentID:           sale.AgentID,
		ShopID:            sale.ShopID,
		DeviceIMEI:        sale.DeviceIMEI,
		DepositAmount:     sale.DepositAmount,
		CustomerOTP:       sale.CustomerOTP,
		AgentOTP:          sale.AgentOTP,
		CustomerConfirmed: sale.CustomerConfirmed,
		AgentConfirmed:    sale.AgentConfirmed,
		Status:            string(sale.Status),
		CompletedAt:       sale.CompletedAt,
		CreatedAt:         sale.CreatedAt,
	}
}

// DeviceModel represents the database schema for devices
type DeviceModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(50)"`
	IMEI       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Model      string    `gorm:"type:varchar(100)"`
	ShopID     string    `gorm:"type:varchar(50);index"`
	Status     string    `gorm:"type:varchar(20);not null;index"`
	LockStatus string    `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (DeviceModel) TableName() string {
	return "devices"
}

func (m *DeviceModel) ToDomain() *domain.Device {
	return &domain.Device{
		ID:         m.ID,
		IMEI:       m.IMEI,
		Model:      m.Model,
		ShopID:     m.ShopID,
		Status:     domain.DeviceStatus(m.Status),
		LockStatus: domain.LockStatus(m.LockStatus),
		CreatedAt:  m.CreatedAt,
	}
}

func DeviceModelFromDomain(device *domain.Device) *DeviceModel {
	return &DeviceModel{
		ID:         device.ID,
		IMEI:       device.IMEI,
		Model:      device.Model,
		ShopID:     device.ShopID,
		Status:     string(device.Status),
		LockStatus: string(device.LockStatus),
		CreatedAt:  device.CreatedAt,
	}
}

// AgentModel represents the database schema for sales agents
type AgentModel struct {
	ID               string          `gorm:"primaryKey;type:varchar(50)"`
	Name             string          `gorm:"type:varchar(100);not null"`
	Phone            string          `gorm:"type:varchar(20)"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(10,6);not null"`
	CommissionEarned decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

func (AgentModel) TableName() string {
	return "agents"
}

func (m *AgentModel) ToDomain() *domain.Agent {
	return &domain.Agent{
		ID:               m.ID,
		Name:             m.Name,
		Phone:            m.Phone,
		CommissionRate:   m.CommissionRate,
		CommissionEarned: m.CommissionEarned,
		CreatedAt:        m.CreatedAt,
	}
}

func AgentModelFromDomain(agent *domain.Agent) *AgentModel {
	return &AgentModel{
		ID:               agent.ID,
		Name:             agent.Name,
		Phone:            agent.Phone,
		CommissionRate:   agent.CommissionRate,
		CommissionEarned: agent.CommissionEarned,
		CreatedAt:        agent.CreatedAt,
	}
}

// ShopModel represents the database schema for shops
type ShopModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(50)"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Location  string    `gorm:"type:varchar(200)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ShopModel) TableName() string {
	return "shops"
}

func (m *ShopModel) ToDomain() *domain.Shop {
	return &domain.Shop{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		CreatedAt: m.CreatedAt,
	}
}

func ShopModelFromDomain(shop *domain.Shop) *ShopModel {
	return &ShopModel{
		ID:        shop.ID,
		Name:      shop.Name,
		Location:  shop.Location,
		CreatedAt: shop.CreatedAt,
	}
}
