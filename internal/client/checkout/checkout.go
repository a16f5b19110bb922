// Package checkout orchestrates a payment attempt: it snapshots the
// cart, submits the attempt to the backend with the session's token,
// and for deferred methods polls the status endpoint until a terminal
// status or cancellation.
package checkout

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/client/cart"
	"github.com/prodan/storefront/internal/models"
)

// defaultPollInterval matches the storefront's 5-second status poll.
const defaultPollInterval = 5 * time.Second

// PaymentAPI is the slice of the backend the orchestrator needs.
type PaymentAPI interface {
	ProcessPayment(ctx context.Context, token string, pr models.PaymentRequest) (models.PaymentResponse, error)
	PaymentStatus(ctx context.Context, token string) (models.PaymentStatus, error)
}

// TokenSource supplies the current bearer token.
type TokenSource interface {
	Token() string
}

// Fields carries the method-specific inputs of a payment attempt.
type Fields struct {
	// Operator is the mobile-money operator ("orange", "mtn", ...).
	Operator string
	// PhoneNumber is the mobile-money account to debit.
	PhoneNumber string
}

// Result is the terminal outcome of one payment attempt.
type Result struct {
	// Status is one of models.StatusCompleted / StatusFailed / StatusPending
	// (pending only when the caller cancelled before a terminal status).
	Status string
	// ReceiptNumber is the backend-assigned receipt on completion.
	ReceiptNumber string
	// Message explains a failure, verbatim from the backend when available.
	Message string
}

// Orchestrator runs payment attempts against the backend.
type Orchestrator struct {
	cart    *cart.Cart
	session TokenSource
	api     PaymentAPI
	log     *zap.Logger

	// PollInterval is how often a deferred attempt polls for its
	// status. Tests shorten it.
	PollInterval time.Duration
}

// New constructs an Orchestrator over the given cart, session, and API.
func New(c *cart.Cart, s TokenSource, api PaymentAPI, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cart:         c,
		session:      s,
		api:          api,
		log:          log,
		PollInterval: defaultPollInterval,
	}
}

// Submit runs one payment attempt for the given method. The amount and
// order lines are a snapshot of the cart at call time. The cart is
// cleared only when the attempt reaches StatusCompleted; on any
// failure it is left untouched. For the mobile method Submit blocks,
// polling every PollInterval, until the backend reports a terminal
// status or ctx is cancelled; cancelling returns ctx.Err() with a
// pending Result and stops the polling timer.
func (o *Orchestrator) Submit(ctx context.Context, method string, fields Fields) (Result, error) {
	req := o.buildRequest(method, fields)

	resp, err := o.api.ProcessPayment(ctx, o.session.Token(), req)
	if err != nil {
		o.log.Warn("payment submission failed", zap.String("method", method), zap.Error(err))
		return Result{Status: models.StatusFailed, Message: err.Error()}, err
	}

	if method == models.MethodMobile {
		return o.pollStatus(ctx)
	}

	// synchronous method: done
	o.cart.Clear()
	return Result{Status: models.StatusCompleted, ReceiptNumber: resp.ReceiptNumber}, nil
}

// buildRequest snapshots the cart into a payment request.
func (o *Orchestrator) buildRequest(method string, fields Fields) models.PaymentRequest {
	items := o.cart.Items()
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderItem{
			Product:  models.OrderProduct{Name: it.Name},
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	amount, err := strconv.ParseFloat(o.cart.TotalPrice(), 64)
	if err != nil {
		amount = 0
	}

	req := models.PaymentRequest{
		PaymentMethod: method,
		Amount:        amount,
		OrderItems:    lines,
	}
	if method == models.MethodMobile {
		req.Operator = fields.Operator
		req.PhoneNumber = fields.PhoneNumber
	}
	return req
}

// pollStatus polls the status endpoint until a terminal status or
// cancellation. A failed poll iteration is logged and retried on the
// next tick; it is not itself terminal.
func (o *Orchestrator) pollStatus(ctx context.Context) (Result, error) {
	ticker := time.NewTicker(o.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{Status: models.StatusPending, Message: "payment cancelled before confirmation"}, ctx.Err()
		case <-ticker.C:
			status, err := o.api.PaymentStatus(ctx, o.session.Token())
			if err != nil {
				o.log.Warn("payment status poll failed", zap.Error(err))
				continue
			}
			switch status.Status {
			case models.StatusCompleted:
				o.cart.Clear()
				return Result{Status: models.StatusCompleted, ReceiptNumber: status.ReceiptNumber}, nil
			case models.StatusFailed:
				return Result{Status: models.StatusFailed, Message: "transaction validation failed"}, nil
			}
			// still pending, keep polling
		}
	}
}
