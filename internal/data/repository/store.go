package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingStore persists movies with their seat maps, bookings and payment
// transactions. Lookups report a missing record as ErrNotFound; failed writes
// wrap ErrWrite.
type BookingStore interface {
	LoadMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	ListMovies(ctx context.Context, offset, limit int) ([]*entity.Movie, int64, error)

	// SaveMovie inserts a movie whose Version is 0 and otherwise updates it
	// only if the stored Version still matches, returning ErrVersionConflict
	// when it does not. On success movie.Version holds the stored version.
	SaveMovie(ctx context.Context, movie *entity.Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error

	SaveBooking(ctx context.Context, booking *entity.Booking) error
	LoadBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	LoadBookingsForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error)

	// CommitBooking writes the sold seat map of movie and the booking in one
	// transaction. Either both are stored or neither is.
	CommitBooking(ctx context.Context, movie *entity.Movie, booking *entity.Booking) error

	LoadTransaction(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error)

	// RecordPayment marks an unpaid booking as paid and stores txn with it.
	RecordPayment(ctx context.Context, bookingID uuid.UUID, txn *entity.Transaction) error
}

type bookingStore struct {
	db  database.PgxIface
	log *zap.Logger
	now func() time.Time
}

func NewBookingStore(db database.PgxIface, log *zap.Logger) BookingStore {
	return &bookingStore{
		db:  db,
		log: log.With(zap.String("repository", "store")),
		now: time.Now,
	}
}

func writeErr(err error) error {
	if errors.Is(err, ErrWrite) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrWrite, err)
}

func (s *bookingStore) LoadMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	movie, err := NewMovieRepository(s.db, s.log).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}
	return movie, nil
}

func (s *bookingStore) ListMovies(ctx context.Context, offset, limit int) ([]*entity.Movie, int64, error) {
	repo := NewMovieRepository(s.db, s.log)

	movies, err := repo.FindLatest(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// SaveMovie works on a staged copy; movie only changes when the write lands.
func (s *bookingStore) SaveMovie(ctx context.Context, movie *entity.Movie) error {
	now := s.now()
	staged := *movie
	staged.UpdatedAt = now

	if staged.Version == 0 {
		if staged.ID == uuid.Nil {
			staged.ID = utils.GenerateUUID()
		}
		if staged.CreatedAt.IsZero() {
			staged.CreatedAt = now
		}
		staged.Version = 1
		if err := NewMovieRepository(s.db, s.log).Create(ctx, &staged); err != nil {
			return writeErr(err)
		}
	} else if err := s.updateMovie(ctx, s.db, &staged); err != nil {
		return err
	}

	*movie = staged
	return nil
}

// updateMovie runs the version check on q and bumps movie.Version on success.
func (s *bookingStore) updateMovie(ctx context.Context, q database.Querier, movie *entity.Movie) error {
	repo := NewMovieRepository(q, s.log)

	ok, err := repo.UpdateIfVersion(ctx, movie, movie.Version)
	if err != nil {
		return writeErr(err)
	}
	if !ok {
		exists, err := repo.Exists(ctx, movie.ID)
		if err != nil {
			return writeErr(err)
		}
		if !exists {
			return fmt.Errorf("movie %s: %w", movie.ID, ErrNotFound)
		}
		s.log.Warn("Stale seat map rejected",
			zap.String("movie_id", movie.ID.String()),
			zap.Int("version", movie.Version),
		)
		return fmt.Errorf("movie %s at version %d: %w", movie.ID, movie.Version, ErrVersionConflict)
	}

	movie.Version++
	return nil
}

func (s *bookingStore) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	err := NewMovieRepository(s.db, s.log).Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *bookingStore) SaveBooking(ctx context.Context, booking *entity.Booking) error {
	if err := NewBookingRepository(s.db, s.log).Create(ctx, booking); err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *bookingStore) LoadBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := NewBookingRepository(s.db, s.log).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return booking, nil
}

func (s *bookingStore) LoadBookingsForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	return NewBookingRepository(s.db, s.log).FindByCustomerID(ctx, customerID)
}

func (s *bookingStore) CommitBooking(ctx context.Context, movie *entity.Movie, booking *entity.Booking) error {
	// work on a copy so a rolled back commit leaves the caller's version alone
	staged := *movie
	staged.UpdatedAt = s.now()

	err := database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.updateMovie(ctx, tx, &staged); err != nil {
			return err
		}
		if err := NewBookingRepository(tx, s.log).Create(ctx, booking); err != nil {
			return writeErr(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrNotFound) {
			return err
		}
		return writeErr(err)
	}

	*movie = staged

	s.log.Info("Booking committed",
		zap.String("movie_id", movie.ID.String()),
		zap.String("reference", booking.Reference),
		zap.Strings("seats", booking.SeatLabels),
	)
	return nil
}

func (s *bookingStore) LoadTransaction(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error) {
	txn, err := NewTransactionRepository(s.db, s.log).FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction for booking %s: %w", bookingID, ErrNotFound)
	}
	return txn, nil
}

func (s *bookingStore) RecordPayment(ctx context.Context, bookingID uuid.UUID, txn *entity.Transaction) error {
	err := database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		bookings := NewBookingRepository(tx, s.log)

		ok, err := bookings.MarkPaid(ctx, bookingID, txn.PaidAt)
		if err != nil {
			return writeErr(err)
		}
		if !ok {
			existing, err := bookings.FindByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
			}
			return fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyPaid)
		}

		txn.BookingID = bookingID
		if err := NewTransactionRepository(tx, s.log).Create(ctx, txn); err != nil {
			return writeErr(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyPaid) {
			return err
		}
		return writeErr(err)
	}
	return nil
}
