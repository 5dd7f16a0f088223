package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Get("/api/payment-methods", paymentHandler.GetPaymentMethods)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/bookings/{id}/payment", paymentHandler.GetQuote)
		r.Post("/api/bookings/{id}/payment", paymentHandler.ConfirmPayment)
	})
}
