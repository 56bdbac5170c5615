package service

import (
	"context"
	"sync"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
)

// In-memory repositories backing the service tests. They honor the same
// not-found semantics as the MySQL implementations; transactional
// isolation is out of scope here.

type memLoanRepo struct {
	loans map[string]*domain.Loan
}

func newMemLoanRepo() *memLoanRepo {
	return &memLoanRepo{loans: make(map[string]*domain.Loan)}
}

func (r *memLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	r.loans[loan.ID] = loan
	return nil
}

func (r *memLoanRepo) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

func (r *memLoanRepo) FindByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r *memLoanRepo) Save(ctx context.Context, loan *domain.Loan) error {
	if _, ok := r.loans[loan.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	r.loans[loan.ID] = loan
	return nil
}

func (r *memLoanRepo) FindDefaulted(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	var result []*domain.Loan
	for _, loan := range r.loans {
		if loan.Status == domain.LoanStatusActive && loan.DueDate != nil && loan.DueDate.Before(asOf) {
			result = append(result, loan)
		}
	}
	return result, nil
}

type memScheduleRepo struct {
	charges map[string][]*domain.LoanCharge
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{charges: make(map[string][]*domain.LoanCharge)}
}

func (r *memScheduleRepo) CreateCharges(ctx context.Context, charges []*domain.LoanCharge) error {
	if len(charges) == 0 {
		return nil
	}
	loanID := charges[0].LoanID
	r.charges[loanID] = append(r.charges[loanID], charges...)
	return nil
}

func (r *memScheduleRepo) CountByLoanID(ctx context.Context, loanID string) (int64, error) {
	return int64(len(r.charges[loanID])), nil
}

func (r *memScheduleRepo) FindByLoanID(ctx context.Context, loanID string) ([]*domain.LoanCharge, error) {
	return r.charges[loanID], nil
}

type memPaymentRepo struct {
	byID  map[string]*domain.Payment
	byRef map[string]*domain.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{
		byID:  make(map[string]*domain.Payment),
		byRef: make(map[string]*domain.Payment),
	}
}

func (r *memPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if _, ok := r.byRef[payment.TransactionRef]; ok {
		return domain.ErrDuplicateTransaction
	}
	r.byID[payment.ID] = payment
	r.byRef[payment.TransactionRef] = payment
	return nil
}

func (r *memPaymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	payment, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, nil
}

func (r *memPaymentRepo) FindByTransactionRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	payment, ok := r.byRef[txRef]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, nil
}

func (r *memPaymentRepo) FindByTransactionRefForUpdate(ctx context.Context, txRef string) (*domain.Payment, error) {
	return r.FindByTransactionRef(ctx, txRef)
}

func (r *memPaymentRepo) ExistsByTransactionRef(ctx context.Context, txRef string) (bool, error) {
	_, ok := r.byRef[txRef]
	return ok, nil
}

func (r *memPaymentRepo) FindByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range r.byID {
		if payment.LoanID == loanID {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (r *memPaymentRepo) Save(ctx context.Context, payment *domain.Payment) error {
	if _, ok := r.byID[payment.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	r.byID[payment.ID] = payment
	r.byRef[payment.TransactionRef] = payment
	return nil
}

type memSaleRepo struct {
	sales map[string]*domain.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[string]*domain.Sale)}
}

func (r *memSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *memSaleRepo) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

func (r *memSaleRepo) FindByIDForUpdate(ctx context.Context, id string) (*domain.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *memSaleRepo) Save(ctx context.Context, sale *domain.Sale) error {
	if _, ok := r.sales[sale.ID]; !ok {
		return domain.ErrSaleNotFound
	}
	r.sales[sale.ID] = sale
	return nil
}

type memDeviceRepo struct {
	devices map[string]*domain.Device
}

func newMemDeviceRepo() *memDeviceRepo {
	return &memDeviceRepo{devices: make(map[string]*domain.Device)}
}

func (r *memDeviceRepo) Create(ctx context.Context, device *domain.Device) error {
	r.devices[device.ID] = device
	return nil
}

func (r *memDeviceRepo) FindByID(ctx context.Context, id string) (*domain.Device, error) {
	device, ok := r.devices[id]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return device, nil
}

func (r *memDeviceRepo) FindByIMEI(ctx context.Context, imei string) (*domain.Device, error) {
	for _, device := range r.devices {
		if device.IMEI == imei {
			return device, nil
		}
	}
	return nil, domain.ErrDeviceNotFound
}

func (r *memDeviceRepo) FindByIMEIForUpdate(ctx context.Context, imei string) (*domain.Device, error) {
	return r.FindByIMEI(ctx, imei)
}

func (r *memDeviceRepo) Save(ctx context.Context, device *domain.Device) error {
	if _, ok := r.devices[device.ID]; !ok {
		return domain.ErrDeviceNotFound
	}
	r.devices[device.ID] = device
	return nil
}

type memAgentRepo struct {
	agents map[string]*domain.Agent
}

func newMemAgentRepo() *memAgentRepo {
	return &memAgentRepo{agents: make(map[string]*domain.Agent)}
}

func (r *memAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	r.agents[agent.ID] = agent
	return nil
}

func (r *memAgentRepo) FindByID(ctx context.Context, id string) (*domain.Agent, error) {
	agent, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return agent, nil
}

func (r *memAgentRepo) FindByIDForUpdate(ctx context.Context, id string) (*domain.Agent, error) {
	return r.FindByID(ctx, id)
}

func (r *memAgentRepo) Save(ctx context.Context, agent *domain.Agent) error {
	if _, ok := r.agents[agent.ID]; !ok {
		return domain.ErrAgentNotFound
	}
	r.agents[agent.ID] = agent
	return nil
}

type memShopRepo struct {
	shops map[string]*domain.Shop
}

func newMemShopRepo() *memShopRepo {
	return &memShopRepo{shops: make(map[string]*domain.Shop)}
}

func (r *memShopRepo) Create(ctx context.Context, shop *domain.Shop) error {
	r.shops[shop.ID] = shop
	return nil
}

func (r *memShopRepo) FindByID(ctx context.Context, id string) (*domain.Shop, error) {
	shop, ok := r.shops[id]
	if !ok {
		return nil, domain.ErrShopNotFound
	}
	return shop, nil
}

// memUnitOfWork runs the function directly against the shared in-memory
// repositories.
type memUnitOfWork struct {
	loans    *memLoanRepo
	payments *memPaymentRepo
	sales    *memSaleRepo
	devices  *memDeviceRepo
	agents   *memAgentRepo
}

func (u *memUnitOfWork) Loans() domain.LoanRepository       { return u.loans }
func (u *memUnitOfWork) Payments() domain.PaymentRepository { return u.payments }
func (u *memUnitOfWork) Sales() domain.SaleRepository       { return u.sales }
func (u *memUnitOfWork) Devices() domain.DeviceRepository   { return u.devices }
func (u *memUnitOfWork) Agents() domain.AgentRepository     { return u.agents }

func (u *memUnitOfWork) Execute(ctx context.Context, fn func(tx domain.TxRepositories) error) error {
	return fn(u)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// capturePublisher records published events; Publish fails when failWith
// is set.
type capturePublisher struct {
	mu       sync.Mutex
	events   []domain.DomainEvent
	failWith error
}

func (p *capturePublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DomainEvent(nil), p.events...)
}

// fixture wires every service against one shared in-memory store.
type fixture struct {
	loans    *memLoanRepo
	schedule *memScheduleRepo
	payments *memPaymentRepo
	sales    *memSaleRepo
	devices  *memDeviceRepo
	agents   *memAgentRepo
	shops    *memShopRepo
	uow      *memUnitOfWork
	clock    fixedClock
}

func newFixture(now time.Time) *fixture {
	loans := newMemLoanRepo()
	payments := newMemPaymentRepo()
	sales := newMemSaleRepo()
	devices := newMemDeviceRepo()
	agents := newMemAgentRepo()

	return &fixture{
		loans:    loans,
		schedule: newMemScheduleRepo(),
		payments: payments,
		sales:    sales,
		devices:  devices,
		agents:   agents,
		shops:    newMemShopRepo(),
		uow: &memUnitOfWork{
			loans:    loans,
			payments: payments,
			sales:    sales,
			devices:  devices,
			agents:   agents,
		},
		clock: fixedClock{now: now},
	}
}
