package adaptor

import (
	"errors"
	"net/http"

	"movie-booking/internal/booking"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Movie   *MovieHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Movie:   NewMovieHandler(service.Movie, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// handleServiceError maps service errors to HTTP responses. Anything it does
// not recognise is logged and hidden behind a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, booking.ErrEmptySelection):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case usecase.IsSeatConflict(err):
		log.Info(operation+" rejected", zap.Error(err))
		utils.ResponseConflict(w, seatErrorMessage(err), nil)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Resource not found")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have access to this resource")

	case errors.Is(err, usecase.ErrAlreadyPaid):
		utils.ResponseConflict(w, "Booking is already paid", nil)

	case errors.Is(err, usecase.ErrBusy):
		log.Warn(operation+" hit a busy movie", zap.Error(err))
		utils.ResponseConflict(w, usecase.ErrBusy.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// seatErrorMessage returns the seat-level message without the wrapping added
// on the way up.
func seatErrorMessage(err error) string {
	var unknown *booking.UnknownSeatError
	if errors.As(err, &unknown) {
		return unknown.Error()
	}
	var sold *booking.SeatUnavailableError
	if errors.As(err, &sold) {
		return sold.Error()
	}
	return err.Error()
}

func respondValidation(w http.ResponseWriter, log *zap.Logger, validationErrors map[string]string) {
	log.Debug("Request validation failed", zap.String("errors", utils.FormatValidationErrors(validationErrors)))
	utils.ResponseBadRequest(w, "Validation failed", validationErrors)
}

// customerID reads the authenticated user set by the session middleware.
func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}
