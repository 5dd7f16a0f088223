package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-booking/internal/booking"
	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, movieID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID uuid.UUID) ([]response.BookingHistoryItem, error)
	GetBookingByID(ctx context.Context, customerID uuid.UUID, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	store      repository.BookingStore
	locker     lock.Locker
	transactor *booking.Transactor
	config     utils.BookingConfig
	log        *zap.Logger
}

func NewBookingService(
	store repository.BookingStore,
	locker lock.Locker,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		store:      store,
		locker:     locker,
		transactor: booking.NewTransactor(nil, nil),
		config:     config,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, movieID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	id, err := parseID("movie", movieID)
	if err != nil {
		return nil, err
	}

	var (
		created    *entity.Booking
		movieTitle string
	)

	// load, apply and commit all happen under the movie's lock so two
	// customers can never both see a seat as available
	err = withMovieLock(ctx, s.locker, id, s.config.MaxRetries, s.log, func() error {
		movie, err := s.store.LoadMovie(ctx, id)
		if err != nil {
			return err
		}

		next, b, err := s.transactor.Apply(movie.SeatMap, req.SeatLabels, customerID, movie.ID, movie.Showtime)
		if err != nil {
			return err
		}

		movie.SeatMap = next
		if err := s.store.CommitBooking(ctx, movie, b); err != nil {
			return err
		}

		created = b
		movieTitle = movie.Title
		return nil
	})
	if err != nil {
		if booking.IsSelectionError(err) {
			s.log.Info("Seat selection rejected",
				zap.String("movie_id", movieID),
				zap.String("customer_id", customerID.String()),
				zap.Strings("seats", req.SeatLabels),
				zap.Error(err),
			)
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("movie_id", movieID),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("reference", created.Reference),
		zap.String("movie_id", movieID),
		zap.Strings("seats", created.SeatLabels),
	)

	resp := response.BookingToResponse(created, movieTitle)
	return &resp, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID uuid.UUID) ([]response.BookingHistoryItem, error) {
	bookings, err := s.store.LoadBookingsForCustomer(ctx, customerID)
	if err != nil {
		s.log.Error("Failed to get customer bookings",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	titles := make(map[uuid.UUID]string)
	items := make([]response.BookingHistoryItem, 0, len(bookings))
	for _, b := range bookings {
		title, ok := titles[b.MovieID]
		if !ok {
			title = s.movieTitle(ctx, b.MovieID)
			titles[b.MovieID] = title
		}
		items = append(items, response.BookingToHistoryItem(b, title))
	}

	return items, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, customerID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	b, err := loadOwnedBooking(ctx, s.store, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(b, s.movieTitle(ctx, b.MovieID))
	return &resp, nil
}

// movieTitle falls back to an empty title when the movie cannot be read; the
// booking itself is still worth showing.
func (s *bookingService) movieTitle(ctx context.Context, movieID uuid.UUID) string {
	movie, err := s.store.LoadMovie(ctx, movieID)
	if err != nil {
		s.log.Warn("Failed to get movie for booking",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return ""
	}
	return movie.Title
}

func loadOwnedBooking(ctx context.Context, store repository.BookingStore, customerID uuid.UUID, bookingID string) (*entity.Booking, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	b, err := store.LoadBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.CustomerID != customerID {
		return nil, fmt.Errorf("%w: booking belongs to another customer", ErrForbidden)
	}
	return b, nil
}

// IsSelectionError is re-exported for handlers.
func IsSelectionError(err error) bool {
	return booking.IsSelectionError(err)
}

// IsSeatConflict reports errors caused by seats that cannot be sold.
func IsSeatConflict(err error) bool {
	return errors.Is(err, booking.ErrSeatUnavailable) || errors.Is(err, booking.ErrUnknownSeat)
}
