package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
)

// memStore keeps everything in maps and enforces the same version check as
// the Postgres store.
type memStore struct {
	mu           sync.Mutex
	movies       map[uuid.UUID]entity.Movie
	bookings     map[uuid.UUID]entity.Booking
	transactions map[uuid.UUID]entity.Transaction

	// beforeCommit runs inside CommitBooking, before the version check.
	beforeCommit func()
	commitErr    error
}

func newMemStore() *memStore {
	return &memStore{
		movies:       make(map[uuid.UUID]entity.Movie),
		bookings:     make(map[uuid.UUID]entity.Booking),
		transactions: make(map[uuid.UUID]entity.Transaction),
	}
}

func (s *memStore) LoadMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %s: %w", id, repository.ErrNotFound)
	}
	m.SeatMap = m.SeatMap.Clone()
	return &m, nil
}

func (s *memStore) ListMovies(ctx context.Context, offset, limit int) ([]*entity.Movie, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*entity.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		m := m
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (s *memStore) SaveMovie(ctx context.Context, movie *entity.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveMovieLocked(movie)
}

func (s *memStore) saveMovieLocked(movie *entity.Movie) error {
	if movie.Version == 0 {
		if movie.ID == uuid.Nil {
			movie.ID = utils.GenerateUUID()
		}
		movie.Version = 1
		stored := *movie
		stored.SeatMap = movie.SeatMap.Clone()
		s.movies[movie.ID] = stored
		return nil
	}

	current, ok := s.movies[movie.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version != movie.Version {
		return repository.ErrVersionConflict
	}
	movie.Version++
	stored := *movie
	stored.SeatMap = movie.SeatMap.Clone()
	s.movies[movie.ID] = stored
	return nil
}

func (s *memStore) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.movies, id)
	return nil
}

func (s *memStore) SaveBooking(ctx context.Context, b *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = *b
	return nil
}

func (s *memStore) LoadBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	return &b, nil
}

func (s *memStore) LoadBookingsForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Booking
	for _, b := range s.bookings {
		if b.CustomerID == customerID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) CommitBooking(ctx context.Context, movie *entity.Movie, b *entity.Booking) error {
	if s.beforeCommit != nil {
		s.beforeCommit()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitErr != nil {
		return s.commitErr
	}

	staged := *movie
	if err := s.saveMovieLocked(&staged); err != nil {
		return err
	}
	s.bookings[b.ID] = *b
	*movie = staged
	return nil
}

func (s *memStore) LoadTransaction(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) RecordPayment(ctx context.Context, bookingID uuid.UUID, txn *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if b.IsPaid() {
		return repository.ErrAlreadyPaid
	}
	b.PaymentStatus = entity.PaymentStatusPaid
	s.bookings[bookingID] = b
	txn.BookingID = bookingID
	s.transactions[bookingID] = *txn
	return nil
}

// bumpVersion simulates a writer that skipped the lock.
func (s *memStore) bumpVersion(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.movies[id]
	m.Version++
	s.movies[id] = m
}
