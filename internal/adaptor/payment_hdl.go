package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-booking/internal/dto/request"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// GetPaymentMethods handles GET /api/payment-methods
func (h *PaymentHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Payment methods retrieved successfully", h.service.GetPaymentMethods())
}

// GetQuote handles GET /api/bookings/{id}/payment
func (h *PaymentHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	userID, ok := customerID(w, r)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get payment quote")
		return
	}

	utils.ResponseSuccess(w, "Payment details retrieved successfully", quote)
}

// ConfirmPayment handles POST /api/bookings/{id}/payment
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := customerID(w, r)
	if !ok {
		return
	}

	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		respondValidation(w, h.log, validationErrors)
		return
	}

	txn, err := h.service.ConfirmPayment(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "Payment successful", txn)
}
