package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/prodan/storefront/internal/models"
)

// ErrNoPendingPayment is returned by Status when the caller has no
// payment awaiting confirmation.
var ErrNoPendingPayment = errors.New("no pending payment")

// confirmAfterPolls is the status poll on which a pending mobile
// payment flips to COMPLETED, so the deferred flow is exercisable
// without a real operator.
const confirmAfterPolls = 2

// pendingPayment tracks one mobile attempt awaiting confirmation.
type pendingPayment struct {
	receipt string
	polls   int
}

// PaymentService processes payment attempts. Card payments complete
// synchronously; mobile payments go pending and are confirmed through
// the status endpoint. State is in-memory, keyed by account email.
type PaymentService struct {
	mu      sync.Mutex
	pending map[string]*pendingPayment
}

// NewPaymentService constructs an empty PaymentService.
func NewPaymentService() *PaymentService {
	return &PaymentService{pending: make(map[string]*pendingPayment)}
}

// newReceiptNumber mints an opaque receipt identifier.
func newReceiptNumber() string {
	return "REC-" + uuid.NewString()
}

// validate rejects attempts with no amount or no order lines.
func validate(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("invalid amount: %v", req.Amount)
	}
	if len(req.OrderItems) == 0 {
		return errors.New("order has no items")
	}
	return nil
}

// ProcessCard settles a card payment synchronously and returns its receipt.
func (s *PaymentService) ProcessCard(email string, req models.PaymentRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	return newReceiptNumber(), nil
}

// ProcessMobile registers a mobile payment as pending. The attempt
// replaces any previous pending attempt by the same account.
func (s *PaymentService) ProcessMobile(email string, req models.PaymentRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if req.Operator == "" || req.PhoneNumber == "" {
		return errors.New("operator and phone number are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[email] = &pendingPayment{receipt: newReceiptNumber()}
	return nil
}

// Status reports the caller's pending payment, completing it once
// enough polls have arrived. A completed payment is removed; polling
// again returns ErrNoPendingPayment.
func (s *PaymentService) Status(email string) (models.PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[email]
	if !ok {
		return models.PaymentStatus{}, ErrNoPendingPayment
	}

	p.polls++
	if p.polls < confirmAfterPolls {
		return models.PaymentStatus{Status: models.StatusPending}, nil
	}

	delete(s.pending, email)
	return models.PaymentStatus{Status: models.StatusCompleted, ReceiptNumber: p.receipt}, nil
}
