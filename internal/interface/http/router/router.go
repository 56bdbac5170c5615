package router

import (
	"time"

	"github.com/gigmile/device-financing/internal/interface/http/handler"
	"github.com/gigmile/device-financing/internal/interface/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handlers *handler.Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", handlers.Payment.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", handlers.Loan.CreateLoan)
			r.Get("/{id}", handlers.Loan.GetLoan)
			r.Patch("/{id}", handlers.Loan.UpdateLoan)
			r.Get("/{id}/schedule", handlers.Loan.GetSchedule)
			r.Post("/{id}/approve", handlers.Loan.ApproveLoan)
			r.Post("/{id}/disburse", handlers.Loan.DisburseLoan)
			r.Get("/{id}/early-repayment", handlers.Loan.EarlyRepaymentQuote)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", handlers.Payment.CreatePayment)
			r.Get("/", handlers.Payment.GetLoanPayments)
			r.Post("/callback", handlers.Payment.SettlementCallback)
			r.Get("/{id}", handlers.Payment.GetPayment)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", handlers.Sale.CreateSale)
			r.Get("/{id}", handlers.Sale.GetSale)
			r.Post("/{id}/verify-otp", handlers.Sale.VerifyOtp)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/defaulted", handlers.Collection.GetDefaultedLoans)
			r.Post("/{loanId}", handlers.Collection.InitiateCollection)
			r.Post("/{loanId}/lock-device", handlers.Collection.LockDevice)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", handlers.Inventory.RegisterDevice)
			r.Post("/lock-callback", handlers.Collection.DeviceLockCallback)
			r.Get("/{id}", handlers.Inventory.GetDevice)
			r.Patch("/{id}", handlers.Inventory.UpdateDevice)
			r.Post("/{id}/assign-shop", handlers.Inventory.AssignDeviceToShop)
		})

		r.Post("/agents", handlers.Sale.RegisterAgent)
		r.Post("/shops", handlers.Inventory.CreateShop)
	})

	return r
}
