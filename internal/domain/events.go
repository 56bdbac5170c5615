package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeScheduleRequested   = "loan.schedule_requested"
	EventTypePaymentInitiated    = "payment.initiated"
	EventTypePaymentSettled      = "payment.settled"
	EventTypeSaleCreated         = "sale.created"
	EventTypeSaleCompleted       = "sale.completed"
	EventTypeCollectionInitiated = "collection.initiated"
	EventTypeDeviceLockRequested = "device.lock_requested"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

func newBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now(),
	}
}

// ScheduleRequestedEvent - a created loan needs its amortization schedule
type ScheduleRequestedEvent struct {
	BaseEvent
	Payload ScheduleRequestedPayload `json:"payload"`
}

func (e ScheduleRequestedEvent) GetPayload() interface{} { return e.Payload }

type ScheduleRequestedPayload struct {
	LoanID       string          `json:"loan_id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months"`
}

func NewScheduleRequestedEvent(loan *Loan) *ScheduleRequestedEvent {
	return &ScheduleRequestedEvent{
		BaseEvent: newBaseEvent(EventTypeScheduleRequested, loan.ID),
		Payload: ScheduleRequestedPayload{
			LoanID:       loan.ID,
			Amount:       loan.Amount,
			InterestRate: loan.InterestRate,
			TenureMonths: loan.TenureMonths,
		},
	}
}

// PaymentInitiatedEvent - a pending payment awaits gateway collection
type PaymentInitiatedEvent struct {
	BaseEvent
	Payload PaymentInitiatedPayload `json:"payload"`
}

func (e PaymentInitiatedEvent) GetPayload() interface{} { return e.Payload }

type PaymentInitiatedPayload struct {
	PaymentID      string          `json:"payment_id"`
	LoanID         string          `json:"loan_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	TransactionRef string          `json:"transaction_ref"`
}

func NewPaymentInitiatedEvent(payment *Payment) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseEvent: newBaseEvent(EventTypePaymentInitiated, payment.ID),
		Payload: PaymentInitiatedPayload{
			PaymentID:      payment.ID,
			LoanID:         payment.LoanID,
			Amount:         payment.Amount,
			Method:         payment.Method,
			TransactionRef: payment.TransactionRef,
		},
	}
}

// PaymentSettledEvent - a settlement outcome has been recorded
type PaymentSettledEvent struct {
	BaseEvent
	Payload PaymentSettledPayload `json:"payload"`
}

func (e PaymentSettledEvent) GetPayload() interface{} { return e.Payload }

type PaymentSettledPayload struct {
	PaymentID         string          `json:"payment_id"`
	LoanID            string          `json:"loan_id"`
	UserID            string          `json:"user_id"`
	TransactionRef    string          `json:"transaction_ref"`
	Amount            decimal.Decimal `json:"amount"`
	Succeeded         bool            `json:"succeeded"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	LoanStatus        LoanStatus      `json:"loan_status"`
	SettledAt         time.Time       `json:"settled_at"`
}

func NewPaymentSettledEvent(payment *Payment, loan *Loan, succeeded bool) *PaymentSettledEvent {
	payload := PaymentSettledPayload{
		PaymentID:      payment.ID,
		LoanID:         payment.LoanID,
		UserID:         payment.UserID,
		TransactionRef: payment.TransactionRef,
		Amount:         payment.Amount,
		Succeeded:      succeeded,
		SettledAt:      time.Now(),
	}
	if loan != nil {
		payload.OutstandingAmount = loan.OutstandingAmount
		payload.TotalPaid = loan.TotalPaid
		payload.LoanStatus = loan.Status
	}
	return &PaymentSettledEvent{
		BaseEvent: newBaseEvent(EventTypePaymentSettled, payment.LoanID),
		Payload:   payload,
	}
}

// SaleCreatedEvent - OTPs need delivering to customer and agent
type SaleCreatedEvent struct {
	BaseEvent
	Payload SaleCreatedPayload `json:"payload"`
}

func (e SaleCreatedEvent) GetPayload() interface{} { return e.Payload }

type SaleCreatedPayload struct {
	SaleID      string `json:"sale_id"`
	LoanID      string `json:"loan_id"`
	AgentID     string `json:"agent_id"`
	DeviceIMEI  string `json:"device_imei"`
	CustomerOTP string `json:"customer_otp"`
	AgentOTP    string `json:"agent_otp"`
}

func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeSaleCreated, sale.ID),
		Payload: SaleCreatedPayload{
			SaleID:      sale.ID,
			LoanID:      sale.LoanID,
			AgentID:     sale.AgentID,
			DeviceIMEI:  sale.DeviceIMEI,
			CustomerOTP: sale.CustomerOTP,
			AgentOTP:    sale.AgentOTP,
		},
	}
}

// SaleCompletedEvent - both parties confirmed, loan disbursed
type SaleCompletedEvent struct {
	BaseEvent
	Payload SaleCompletedPayload `json:"payload"`
}

func (e SaleCompletedEvent) GetPayload() interface{} { return e.Payload }

type SaleCompletedPayload struct {
	SaleID        string          `json:"sale_id"`
	LoanID        string          `json:"loan_id"`
	AgentID       string          `json:"agent_id"`
	DeviceIMEI    string          `json:"device_imei"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Commission    decimal.Decimal `json:"commission"`
	CompletedAt   time.Time       `json:"completed_at"`
}

func NewSaleCompletedEvent(sale *Sale, commission decimal.Decimal) *SaleCompletedEvent {
	payload := SaleCompletedPayload{
		SaleID:        sale.ID,
		LoanID:        sale.LoanID,
		AgentID:       sale.AgentID,
		DeviceIMEI:    sale.DeviceIMEI,
		DepositAmount: sale.DepositAmount,
		Commission:    commission,
	}
	if sale.CompletedAt != nil {
		payload.CompletedAt = *sale.CompletedAt
	}
	return &SaleCompletedEvent{
		BaseEvent: newBaseEvent(EventTypeSaleCompleted, sale.ID),
		Payload:   payload,
	}
}

// CollectionInitiatedEvent - downstream collection side effects
type CollectionInitiatedEvent struct {
	BaseEvent
	Payload CollectionInitiatedPayload `json:"payload"`
}

func (e CollectionInitiatedEvent) GetPayload() interface{} { return e.Payload }

type CollectionInitiatedPayload struct {
	LoanID            string          `json:"loan_id"`
	UserID            string          `json:"user_id"`
	DeviceID          string          `json:"device_id,omitempty"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

func NewCollectionInitiatedEvent(loan *Loan) *CollectionInitiatedEvent {
	return &CollectionInitiatedEvent{
		BaseEvent: newBaseEvent(EventTypeCollectionInitiated, loan.ID),
		Payload: CollectionInitiatedPayload{
			LoanID:            loan.ID,
			UserID:            loan.UserID,
			DeviceID:          loan.DeviceID,
			OutstandingAmount: loan.OutstandingAmount,
		},
	}
}

// DeviceLockRequestedEvent - device management must lock the handset
type DeviceLockRequestedEvent struct {
	BaseEvent
	Payload DeviceLockRequestedPayload `json:"payload"`
}

func (e DeviceLockRequestedEvent) GetPayload() interface{} { return e.Payload }

type DeviceLockRequestedPayload struct {
	DeviceID string `json:"device_id"`
	IMEI     string `json:"imei"`
	LoanID   string `json:"loan_id"`
}

func NewDeviceLockRequestedEvent(device *Device, loanID string) *DeviceLockRequestedEvent {
	return &DeviceLockRequestedEvent{
		BaseEvent: newBaseEvent(EventTypeDeviceLockRequested, device.ID),
		Payload: DeviceLockRequestedPayload{
			DeviceID: device.ID,
			IMEI:     device.IMEI,
			LoanID:   loanID,
		},
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
