package domain

import (
	"context"
	"time"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	// FindByIDForUpdate acquires a row lock; valid only inside a UnitOfWork.
	FindByIDForUpdate(ctx context.Context, id string) (*Loan, error)
	Save(ctx context.Context, loan *Loan) error
	FindDefaulted(ctx context.Context, asOf time.Time) ([]*Loan, error)
}

type ScheduleRepository interface {
	CreateCharges(ctx context.Context, charges []*LoanCharge) error
	CountByLoanID(ctx context.Context, loanID string) (int64, error)
	FindByLoanID(ctx context.Context, loanID string) ([]*LoanCharge, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindByTransactionRef(ctx context.Context, txRef string) (*Payment, error)
	FindByTransactionRefForUpdate(ctx context.Context, txRef string) (*Payment, error)
	ExistsByTransactionRef(ctx context.Context, txRef string) (bool, error)
	FindByLoanID(ctx context.Context, loanID string) ([]*Payment, error)
	Save(ctx context.Context, payment *Payment) error
}

type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id string) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Sale, error)
	Save(ctx context.Context, sale *Sale) error
}

type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	FindByID(ctx context.Context, id string) (*Device, error)
	FindByIMEI(ctx context.Context, imei string) (*Device, error)
	FindByIMEIForUpdate(ctx context.Context, imei string) (*Device, error)
	Save(ctx context.Context, device *Device) error
}

type AgentRepository interface {
	Create(ctx context.Context, agent *Agent) error
	FindByID(ctx context.Context, id string) (*Agent, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Agent, error)
	Save(ctx context.Context, agent *Agent) error
}

type ShopRepository interface {
	Create(ctx context.Context, shop *Shop) error
	FindByID(ctx context.Context, id string) (*Shop, error)
}

// TxRepositories is the repository view bound to one transaction. Reads
// through the *ForUpdate methods and all writes made through it commit or
// roll back together.
type TxRepositories interface {
	Loans() LoanRepository
	Payments() PaymentRepository
	Sales() SaleRepository
	Devices() DeviceRepository
	Agents() AgentRepository
}

// UnitOfWork serializes a read-modify-write window against shared
// storage. Every multi-field update to a Loan, Sale, Payment, Device or
// Agent must run inside Execute so concurrent mutations on the same
// entity cannot race.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx TxRepositories) error) error
}
