package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/movies/{id}/bookings", bookingHandler.CreateBooking)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
		r.Get("/api/user/bookings/{id}", bookingHandler.GetBookingByID)
	})
}
