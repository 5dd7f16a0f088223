package usecase

import (
	"context"
	"encoding/json"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMovieService(store *memStore) MovieService {
	return NewMovieService(store, lock.NewLocal(time.Second), testBookingConfig(), zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestCreateMovie_GeneratesSeatMap(t *testing.T) {
	store := newMemStore()
	svc := newTestMovieService(store)

	resp, err := svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title:      "Dune",
		Showtime:   "2025-11-04T21:00:00+05:30",
		TotalSeats: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, resp.AvailableSeats)
	assert.Equal(t, 0, resp.SoldSeats)
	assert.True(t, decimal.NewFromInt(200).Equal(resp.TicketPrice), "default price applies")
	assert.Equal(t, 1, resp.Version)

	movie, err := store.LoadMovie(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, movie.SeatMap.Rows, 3)
	assert.Equal(t, "C", movie.SeatMap.Rows[2].Label)
	assert.Len(t, movie.SeatMap.Rows[2].Seats, 4)
}

func TestCreateMovie_ZeroSeats(t *testing.T) {
	svc := newTestMovieService(newMemStore())

	resp, err := svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title:    "Short",
		Showtime: "2025-11-04T21:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSeats)
}

func TestCreateMovie_EditedSeatMap(t *testing.T) {
	edited := json.RawMessage(`{"B":[{"label":"B1","status":"available"}],"A":[{"label":"A1","status":"sold"}]}`)

	tests := []struct {
		name       string
		totalSeats int
		seatMap    json.RawMessage
		wantErr    error
	}{
		{name: "matching count", totalSeats: 2, seatMap: edited},
		{name: "count mismatch", totalSeats: 3, seatMap: edited, wantErr: ErrValidation},
		{name: "malformed", totalSeats: 2, seatMap: json.RawMessage(`{"A":"nope"}`), wantErr: seatmap.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			resp, err := newTestMovieService(store).CreateMovie(context.Background(), &request.MovieRequest{
				Title:      "Dune",
				Showtime:   "2025-11-04T21:00:00Z",
				TotalSeats: tt.totalSeats,
				SeatMap:    tt.seatMap,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Empty(t, store.movies)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, resp.SoldSeats)

			movie, _ := store.LoadMovie(context.Background(), uuid.MustParse(resp.ID))
			assert.Equal(t, []string{"B1", "A1"}, movie.SeatMap.Labels(), "edited row order is kept")
		})
	}
}

func TestCreateMovie_EditedLabelsAreBookable(t *testing.T) {
	store := newMemStore()
	resp, err := newTestMovieService(store).CreateMovie(context.Background(), &request.MovieRequest{
		Title:      "Dune",
		Showtime:   "2025-11-04T21:00:00Z",
		TotalSeats: 2,
		SeatMap:    json.RawMessage(`{"1":[{"label":"1A","status":"available"},{"label":"VIP 2","status":"available"}]}`),
	})
	require.NoError(t, err)

	bookings := NewBookingService(store, lock.NewLocal(time.Second), testBookingConfig(), zap.NewNop())
	for _, labels := range [][]string{{"1A"}, {" VIP 2"}} {
		req := &request.CreateBookingRequest{SeatLabels: labels}
		require.Empty(t, utils.ValidateStruct(req), labels)

		_, err := bookings.CreateBooking(context.Background(), uuid.New(), resp.ID, req)
		require.NoError(t, err, labels)
	}

	req := &request.CreateBookingRequest{SeatLabels: []string{"1B"}}
	require.Empty(t, utils.ValidateStruct(req))
	_, err = bookings.CreateBooking(context.Background(), uuid.New(), resp.ID, req)
	assert.ErrorIs(t, err, booking.ErrUnknownSeat, "a mistyped label is an unknown seat")

	movie, err := store.LoadMovie(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	_, sold := movie.SeatMap.Counts()
	assert.Equal(t, 2, sold)
}

func TestCreateMovie_Validation(t *testing.T) {
	svc := newTestMovieService(newMemStore())
	negative := decimal.NewFromInt(-1)

	_, err := svc.CreateMovie(context.Background(), &request.MovieRequest{Title: "X", Showtime: "tomorrow"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateMovie(context.Background(), &request.MovieRequest{
		Title: "X", Showtime: "2025-11-04T21:00:00Z", TicketPrice: &negative,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateMovie_KeepsSeatMap(t *testing.T) {
	store := newMemStore()
	movie := &entity.Movie{
		Title:      "Dune",
		Showtime:   time.Date(2025, 11, 4, 21, 0, 0, 0, time.UTC),
		TotalSeats: 8,
		SeatMap:    seatmap.Generate(8, 8).MarkSold([]string{"A3"}),
	}
	require.NoError(t, store.SaveMovie(context.Background(), movie))

	price := decimal.NewFromInt(250)
	resp, err := newTestMovieService(store).UpdateMovie(context.Background(), movie.ID.String(), &request.MovieUpdateRequest{
		Title:       strPtr("Dune: Part Two"),
		Showtime:    strPtr("2025-11-05T18:30:00Z"),
		TicketPrice: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "Dune: Part Two", resp.Title)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, 1, resp.SoldSeats, "sold seats survive an edit")

	stored, _ := store.LoadMovie(context.Background(), movie.ID)
	seat, _ := stored.SeatMap.Find("A3")
	assert.Equal(t, seatmap.StatusSold, seat.Status)
	assert.True(t, price.Equal(stored.TicketPrice))
	assert.Equal(t, time.Date(2025, 11, 5, 18, 30, 0, 0, time.UTC), stored.Showtime.UTC())
}

func TestUpdateMovie_NotFound(t *testing.T) {
	_, err := newTestMovieService(newMemStore()).UpdateMovie(context.Background(), uuid.NewString(),
		&request.MovieUpdateRequest{Title: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSeatMap(t *testing.T) {
	store := newMemStore()
	movie := &entity.Movie{Title: "Dune", TotalSeats: 10, SeatMap: seatmap.Generate(10, 4).MarkSold([]string{"A1", "C2"})}
	require.NoError(t, store.SaveMovie(context.Background(), movie))

	resp, err := newTestMovieService(store).GetSeatMap(context.Background(), movie.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 10, resp.Total)
	assert.Equal(t, 2, resp.Sold)
	assert.Equal(t, 8, resp.Available)
	assert.Equal(t, "A", resp.Rows[0].Label)
}

func TestGetMovies_LatestFirst(t *testing.T) {
	store := newMemStore()
	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		m := &entity.Movie{
			BaseNoDelete: entity.BaseNoDelete{CreatedAt: base.Add(time.Duration(i) * time.Hour)},
			Title:        string(rune('A' + i)),
		}
		require.NoError(t, store.SaveMovie(context.Background(), m))
	}

	resp, err := newTestMovieService(store).GetMovies(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 6})
	require.NoError(t, err)

	require.Len(t, resp.Data, 6)
	assert.Equal(t, "H", resp.Data[0].Title)
	assert.Equal(t, int64(8), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestDeleteMovie(t *testing.T) {
	store := newMemStore()
	movie := &entity.Movie{Title: "Dune"}
	require.NoError(t, store.SaveMovie(context.Background(), movie))

	svc := newTestMovieService(store)
	require.NoError(t, svc.DeleteMovie(context.Background(), movie.ID.String()))
	assert.ErrorIs(t, svc.DeleteMovie(context.Background(), movie.ID.String()), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteMovie(context.Background(), "42"), ErrValidation)
}
