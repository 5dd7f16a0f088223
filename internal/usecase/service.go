package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-booking/internal/data/repository"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrBusy       = errors.New("movie is busy, please try again")

	ErrNotFound    = repository.ErrNotFound
	ErrAlreadyPaid = repository.ErrAlreadyPaid
)

type Service struct {
	Movie   MovieService
	Booking BookingService
	Payment PaymentService
}

func NewService(repo *repository.Repository, locker lock.Locker, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Movie:   NewMovieService(repo.Store, locker, config.Booking, log),
		Booking: NewBookingService(repo.Store, locker, config.Booking, log),
		Payment: NewPaymentService(repo.Store, config.Booking, log),
	}
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id", ErrValidation, kind)
	}
	return id, nil
}

func movieLockKey(movieID uuid.UUID) string {
	return "movie:" + movieID.String()
}

// withMovieLock runs fn while holding the movie's lock. A version conflict
// means a writer outside the lock got in between, so fn is re-run against a
// fresh load up to maxRetries more times.
func withMovieLock(
	ctx context.Context,
	locker lock.Locker,
	movieID uuid.UUID,
	maxRetries int,
	log *zap.Logger,
	fn func() error,
) error {
	unlock, err := locker.Lock(ctx, movieLockKey(movieID))
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			log.Warn("Movie lock wait timed out", zap.String("movie_id", movieID.String()))
			return ErrBusy
		}
		return fmt.Errorf("lock movie %s: %w", movieID, err)
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		err := fn()
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
		if attempt >= maxRetries {
			log.Warn("Giving up after version conflicts",
				zap.String("movie_id", movieID.String()),
				zap.Int("attempts", attempt+1),
			)
			return fmt.Errorf("%w: %w", ErrBusy, err)
		}
		log.Info("Version conflict, retrying",
			zap.String("movie_id", movieID.String()),
			zap.Int("attempt", attempt+1),
		)
	}
}
