package handler

import (
	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/domain"
	sqlrepository "github.com/gigmile/device-financing/internal/infrastructure/repository/mysql"
	"go.uber.org/zap"
)

type Handlers struct {
	Loan       *LoanHandler
	Payment    *PaymentHandler
	Sale       *SaleHandler
	Collection *CollectionHandler
	Inventory  *InventoryHandler
}

func NewHandlers(
	repos *sqlrepository.Repositories,
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *Handlers {
	loanService := service.NewLoanService(repos.Loan, repos.Schedule, uow, eventPublisher, clock, logger)
	paymentService := service.NewPaymentService(repos.Loan, repos.Payment, uow, eventPublisher, clock, logger)
	saleService := service.NewSaleService(repos.Sale, repos.Loan, repos.Device, repos.Agent, repos.Shop, uow, eventPublisher, clock, logger)
	collectionService := service.NewCollectionService(repos.Loan, repos.Device, uow, eventPublisher, clock, logger)
	inventoryService := service.NewInventoryService(repos.Device, repos.Shop, uow, clock, logger)

	return &Handlers{
		Loan:       NewLoanHandler(loanService, logger),
		Payment:    NewPaymentHandler(paymentService, logger),
		Sale:       NewSaleHandler(saleService, logger),
		Collection: NewCollectionHandler(collectionService, logger),
		Inventory:  NewInventoryHandler(inventoryService, logger),
	}
}
