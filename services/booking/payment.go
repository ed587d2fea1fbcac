package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"lexbook/models"
)

// PaymentProcessor is the payment collaborator boundary: create an order for
// the charged amount, then collect it. The ledger is only confirmed after a
// collected invoice reports paid.
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
	CollectPayment(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
}

// StripePaymentProcessor implements PaymentProcessor with Stripe payment
// intents.
type StripePaymentProcessor struct {
	logger *zap.Logger
}

func NewStripePaymentProcessor(logger *zap.Logger) *StripePaymentProcessor {
	return &StripePaymentProcessor{logger: logger}
}

func (p *StripePaymentProcessor) CreateOrder(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("appointmentId", req.AppointmentID)
	params.AddMetadata("clientId", req.ClientID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, NewBookingError(CodePaymentFailed, "failed to create payment order", err)
	}

	now := time.Now()
	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		PaymentID: intent.ID,
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    models.InvoicePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.logger.Info("payment order created",
		zap.String("invoice", inv.InvoiceID), zap.String("paymentIntent", intent.ID))
	return inv, nil
}

func (p *StripePaymentProcessor) CollectPayment(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := paymentintent.Get(invoice.PaymentID, params)
	if err != nil {
		invoice.Status = models.InvoiceFailed
		invoice.UpdatedAt = time.Now()
		return invoice, NewBookingError(CodePaymentFailed, "failed to look up payment intent", err)
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		invoice.Status = models.InvoicePaid
	case stripe.PaymentIntentStatusCanceled:
		invoice.Status = models.InvoiceFailed
	default:
		invoice.Status = models.InvoicePending
	}
	invoice.UpdatedAt = time.Now()

	if invoice.Status != models.InvoicePaid {
		return invoice, NewBookingError(CodePaymentFailed,
			fmt.Sprintf("payment not confirmed: intent status %s", intent.Status), nil)
	}
	p.logger.Info("payment collected", zap.String("invoice", invoice.InvoiceID))
	return invoice, nil
}

func validatePaymentRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.ClientID == "" {
		return errors.New("missing client ID")
	}
	if req.Currency == "" {
		return errors.New("missing currency")
	}
	return nil
}
