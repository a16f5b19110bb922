package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prodan/storefront/internal/middleware"
	"github.com/prodan/storefront/internal/models"
	"github.com/prodan/storefront/internal/service"
)

// PaymentsService defines the payment operations required by the
// payment handlers.
type PaymentsService interface {
	// ProcessCard settles a card payment and returns its receipt number.
	ProcessCard(email string, req models.PaymentRequest) (string, error)
	// ProcessMobile registers a mobile payment as pending confirmation.
	ProcessMobile(email string, req models.PaymentRequest) error
	// Status reports the caller's pending payment.
	Status(email string) (models.PaymentStatus, error)
}

// PaymentHandler handles HTTP requests for payment processing.
type PaymentHandler struct {
	Payments PaymentsService
}

// ProcessCard handles POST /api/payment/process/card.
func (h *PaymentHandler) ProcessCard(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmailFromContext(r.Context())

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.PaymentResponse{Success: false, Message: "invalid request"})
		return
	}

	receipt, err := h.Payments.ProcessCard(email, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.PaymentResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Success:       true,
		Message:       "Payment processed successfully",
		ReceiptNumber: receipt,
	})
}

// ProcessMobile handles POST /api/payment/process/mobile.
// The attempt goes pending; the client polls /api/payment/status.
func (h *PaymentHandler) ProcessMobile(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmailFromContext(r.Context())

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.PaymentResponse{Success: false, Message: "invalid request"})
		return
	}

	if err := h.Payments.ProcessMobile(email, req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.PaymentResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Success: true,
		Message: "Payment pending operator validation",
	})
}

// Status handles GET /api/payment/status.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmailFromContext(r.Context())

	status, err := h.Payments.Status(email)
	if err != nil {
		if errors.Is(err, service.ErrNoPendingPayment) {
			writeMessage(w, http.StatusNotFound, "no pending payment")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
