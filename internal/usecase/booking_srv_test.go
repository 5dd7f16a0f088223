package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"movie-booking/internal/booking"
	"movie-booking/internal/data/entity"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/seatmap"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type BookingServiceTestSuite struct {
	suite.Suite
	store    *memStore
	service  *bookingService
	movie    *entity.Movie
	customer uuid.UUID
}

func testBookingConfig() utils.BookingConfig {
	return utils.BookingConfig{
		SeatsPerRow:        8,
		DefaultTicketPrice: decimal.NewFromInt(200),
		LockTTL:            time.Second,
		LockWait:           time.Second,
		MaxRetries:         3,
		LatestMovies:       6,
	}
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.store = newMemStore()
	s.service = NewBookingService(s.store, lock.NewLocal(time.Second), testBookingConfig(), zap.NewNop()).(*bookingService)
	s.customer = uuid.New()

	s.movie = &entity.Movie{
		Title:       "Dune",
		Showtime:    time.Date(2025, 11, 4, 21, 0, 0, 0, time.UTC),
		TotalSeats:  16,
		TicketPrice: decimal.NewFromInt(150),
		SeatMap:     seatmap.Generate(16, 8),
	}
	s.Require().NoError(s.store.SaveMovie(context.Background(), s.movie))
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func (s *BookingServiceTestSuite) book(labels ...string) error {
	_, err := s.service.CreateBooking(context.Background(), s.customer, s.movie.ID.String(),
		&request.CreateBookingRequest{SeatLabels: labels})
	return err
}

func (s *BookingServiceTestSuite) storedMap() seatmap.SeatMap {
	movie, err := s.store.LoadMovie(context.Background(), s.movie.ID)
	s.Require().NoError(err)
	return movie.SeatMap
}

func (s *BookingServiceTestSuite) TestCreateBooking_Success() {
	resp, err := s.service.CreateBooking(context.Background(), s.customer, s.movie.ID.String(),
		&request.CreateBookingRequest{SeatLabels: []string{"A1", "B2"}})
	s.Require().NoError(err)

	s.Equal("Dune", resp.MovieTitle)
	s.Equal("A1, B2", resp.Seats)
	s.Equal("Booking for Dune (A1, B2)", resp.Title)
	s.Equal(entity.PaymentStatusUnpaid, resp.PaymentStatus)

	m := s.storedMap()
	for _, label := range []string{"A1", "B2"} {
		seat, _ := m.Find(label)
		s.Equal(seatmap.StatusSold, seat.Status, label)
	}
	_, sold := m.Counts()
	s.Equal(2, sold)
	s.Equal(s.movie.SeatMap.Labels(), m.Labels(), "grid shape must not change")
}

func (s *BookingServiceTestSuite) TestCreateBooking_SelectionErrors() {
	s.Require().NoError(s.book("A2"))

	tests := []struct {
		name    string
		labels  []string
		wantErr error
	}{
		{name: "nothing selected", labels: nil, wantErr: booking.ErrEmptySelection},
		{name: "unknown seat", labels: []string{"A1", "Q9"}, wantErr: booking.ErrUnknownSeat},
		{name: "already sold", labels: []string{"A1", "A2"}, wantErr: booking.ErrSeatUnavailable},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			before := s.storedMap()

			err := s.book(tt.labels...)

			s.ErrorIs(err, tt.wantErr)
			s.True(IsSelectionError(err))
			s.Equal(before, s.storedMap(), "failed booking must not touch the seat map")
		})
	}

	bookings, err := s.store.LoadBookingsForCustomer(context.Background(), s.customer)
	s.Require().NoError(err)
	s.Len(bookings, 1)
}

func (s *BookingServiceTestSuite) TestCreateBooking_MovieNotFound() {
	_, err := s.service.CreateBooking(context.Background(), s.customer, uuid.NewString(),
		&request.CreateBookingRequest{SeatLabels: []string{"A1"}})
	s.ErrorIs(err, ErrNotFound)
}

func (s *BookingServiceTestSuite) TestCreateBooking_InvalidMovieID() {
	_, err := s.service.CreateBooking(context.Background(), s.customer, "not-a-uuid",
		&request.CreateBookingRequest{SeatLabels: []string{"A1"}})
	s.ErrorIs(err, ErrValidation)
}

func (s *BookingServiceTestSuite) TestCreateBooking_CommitFailureLeavesNothing() {
	s.store.commitErr = errors.New("disk full")

	err := s.book("A1")
	s.Require().Error(err)
	s.False(IsSelectionError(err))

	seat, _ := s.storedMap().Find("A1")
	s.Equal(seatmap.StatusAvailable, seat.Status)
	bookings, _ := s.store.LoadBookingsForCustomer(context.Background(), s.customer)
	s.Empty(bookings)
}

func (s *BookingServiceTestSuite) TestCreateBooking_RetriesOnVersionConflict() {
	// a writer outside the lock bumps the version once, before the first commit
	var once sync.Once
	s.store.beforeCommit = func() {
		once.Do(func() { s.store.bumpVersion(s.movie.ID) })
	}

	s.Require().NoError(s.book("A1"))

	seat, _ := s.storedMap().Find("A1")
	s.Equal(seatmap.StatusSold, seat.Status)
}

func (s *BookingServiceTestSuite) TestCreateBooking_GivesUpAfterMaxRetries() {
	s.store.beforeCommit = func() { s.store.bumpVersion(s.movie.ID) }

	err := s.book("A1")
	s.ErrorIs(err, ErrBusy)
}

func (s *BookingServiceTestSuite) TestSerializedDisjointBookingsBothSucceed() {
	s.Require().NoError(s.book("A1", "A2"))
	s.Require().NoError(s.book("B1"))

	_, sold := s.storedMap().Counts()
	s.Equal(3, sold)
}

func (s *BookingServiceTestSuite) TestSerializedOverlappingSecondFails() {
	s.Require().NoError(s.book("A1", "A2"))
	s.ErrorIs(s.book("A2", "A3"), booking.ErrSeatUnavailable)

	seat, _ := s.storedMap().Find("A3")
	s.Equal(seatmap.StatusAvailable, seat.Status)
}

func (s *BookingServiceTestSuite) TestConcurrentBookingsForSameSeat() {
	const customers = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		others    []error
	)
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.CreateBooking(context.Background(), uuid.New(), s.movie.ID.String(),
				&request.CreateBookingRequest{SeatLabels: []string{"B1", "A5"}})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, booking.ErrSeatUnavailable):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(others)
	s.Equal(1, succeeded, "exactly one customer gets the seats")
	s.Equal(customers-1, conflicts)

	_, sold := s.storedMap().Counts()
	s.Equal(2, sold)
}

func (s *BookingServiceTestSuite) TestConcurrentDisjointBookingsAllSucceed() {
	labels := s.movie.SeatMap.Labels()

	var wg sync.WaitGroup
	errs := make([]error, len(labels))
	for i, label := range labels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.service.CreateBooking(context.Background(), uuid.New(), s.movie.ID.String(),
				&request.CreateBookingRequest{SeatLabels: []string{label}})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		s.NoError(err, labels[i])
	}
	available, sold := s.storedMap().Counts()
	s.Equal(0, available)
	s.Equal(len(labels), sold)
}

func (s *BookingServiceTestSuite) TestGetCustomerBookings_NewestFirst() {
	older := &entity.Booking{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)},
		Reference:     "BOOK-OLD",
		CustomerID:    s.customer,
		MovieID:       s.movie.ID,
		SeatLabels:    []string{"A1"},
		PaymentStatus: entity.PaymentStatusPaid,
	}
	newer := &entity.Booking{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Date(2025, 11, 3, 19, 5, 0, 0, time.UTC)},
		Reference:     "BOOK-NEW",
		CustomerID:    s.customer,
		MovieID:       s.movie.ID,
		SeatLabels:    []string{"B1", "B2"},
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	other := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		CustomerID:   uuid.New(),
		MovieID:      s.movie.ID,
		SeatLabels:   []string{"C1"},
	}
	for _, b := range []*entity.Booking{older, newer, other} {
		s.Require().NoError(s.store.SaveBooking(context.Background(), b))
	}

	items, err := s.service.GetCustomerBookings(context.Background(), s.customer)
	s.Require().NoError(err)
	s.Require().Len(items, 2)

	s.Equal("BOOK-NEW", items[0].Reference)
	s.Equal("Dune", items[0].MovieTitle)
	s.Equal("B1, B2", items[0].Seats)
	s.Equal("03 Nov 2025, 07:05 PM", items[0].BookedOn)
	s.Equal(entity.PaymentStatusUnpaid, items[0].PaymentStatus)
	s.Equal("BOOK-OLD", items[1].Reference)
}

func (s *BookingServiceTestSuite) TestGetCustomerBookings_Empty() {
	items, err := s.service.GetCustomerBookings(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func (s *BookingServiceTestSuite) TestGetBookingByID_OwnerOnly() {
	resp, err := s.service.CreateBooking(context.Background(), s.customer, s.movie.ID.String(),
		&request.CreateBookingRequest{SeatLabels: []string{"A1"}})
	s.Require().NoError(err)

	got, err := s.service.GetBookingByID(context.Background(), s.customer, resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.Reference, got.Reference)

	_, err = s.service.GetBookingByID(context.Background(), uuid.New(), resp.ID)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.GetBookingByID(context.Background(), s.customer, uuid.NewString())
	s.ErrorIs(err, ErrNotFound)
}
