package domain

import "errors"

// Not-found errors: a referenced entity is absent.
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrShopNotFound    = errors.New("shop not found")
	ErrNoDeviceOnLoan  = errors.New("no device associated with this loan")
)

// Invalid-state errors: the operation is illegal for the entity's
// current lifecycle state.
var (
	ErrLoanNotPending    = errors.New("only pending loans can be approved")
	ErrLoanNotApproved   = errors.New("only approved loans can be disbursed")
	ErrLoanNotDisbursed  = errors.New("loan has not been disbursed")
	ErrLoanNotActive     = errors.New("loan is not active")
	ErrLoanNotOverdue    = errors.New("loan due date has not passed")
	ErrLoanCompleted     = errors.New("loan is already completed")
	ErrLoanNotRepayable  = errors.New("loan cannot accept payments in its current status")
	ErrPaymentSettled    = errors.New("payment has already been settled")
	ErrSaleNotPending    = errors.New("sale is not in pending status")
	ErrDeviceUnavailable = errors.New("device is not available")
	ErrDeviceSold        = errors.New("cannot update a sold device")
)

// Invalid-input errors.
var (
	ErrInvalidUserID         = errors.New("invalid user ID")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidInterestRate   = errors.New("interest rate must be positive")
	ErrInvalidTenure         = errors.New("tenure must be a positive number of months")
	ErrInvalidOTP            = errors.New("invalid OTP")
	ErrInvalidTransactionRef = errors.New("invalid transaction reference")
	ErrInvalidIMEI           = errors.New("invalid device IMEI")
)

// Conflict and concurrency errors.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction reference")
	ErrOptimisticLock       = errors.New("version mismatch - optimistic lock failed")
)

var notFoundErrors = []error{
	ErrLoanNotFound, ErrPaymentNotFound, ErrSaleNotFound,
	ErrDeviceNotFound, ErrAgentNotFound, ErrShopNotFound,
	ErrNoDeviceOnLoan,
}

var invalidStateErrors = []error{
	ErrLoanNotPending, ErrLoanNotApproved, ErrLoanNotDisbursed,
	ErrLoanNotActive, ErrLoanNotOverdue, ErrLoanCompleted,
	ErrLoanNotRepayable, ErrPaymentSettled, ErrSaleNotPending,
	ErrDeviceUnavailable, ErrDeviceSold,
}

var invalidInputErrors = []error{
	ErrInvalidUserID, ErrInvalidAmount, ErrInvalidInterestRate,
	ErrInvalidTenure, ErrInvalidOTP, ErrInvalidTransactionRef,
	ErrInvalidIMEI,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool     { return matchesAny(err, notFoundErrors) }
func IsInvalidState(err error) bool { return matchesAny(err, invalidStateErrors) }
func IsInvalidInput(err error) bool { return matchesAny(err, invalidInputErrors) }

func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction) || errors.Is(err, ErrOptimisticLock)
}
