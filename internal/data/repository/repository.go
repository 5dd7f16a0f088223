package repository

import (
	"movie-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Movie       MovieRepository
	Booking     BookingRepository
	Transaction TransactionRepository
	Store       BookingStore
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Movie:       NewMovieRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Transaction: NewTransactionRepository(db, log),
		Store:       NewBookingStore(db, log),
	}
}
