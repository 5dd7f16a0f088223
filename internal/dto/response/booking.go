package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

// BookedOnLayout renders booking dates the way customers see them, e.g.
// "03 Nov 2025, 07:30 PM".
const BookedOnLayout = "02 Jan 2006, 03:04 PM"

type BookingResponse struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	Title         string               `json:"title"`
	MovieID       string               `json:"movie_id"`
	MovieTitle    string               `json:"movie_title"`
	SeatLabels    []string             `json:"seat_labels"`
	Seats         string               `json:"seats"`
	SeatCount     int                  `json:"seat_count"`
	Showtime      time.Time            `json:"showtime"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// BookingHistoryItem is one line of a customer's booking history.
type BookingHistoryItem struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	MovieTitle    string               `json:"movie_title"`
	SeatLabels    []string             `json:"seat_labels"`
	Seats         string               `json:"seats"`
	Showtime      time.Time            `json:"showtime"`
	BookedOn      string               `json:"booked_on"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, movieTitle string) BookingResponse {
	return BookingResponse{
		ID:            booking.ID.String(),
		Reference:     booking.Reference,
		Title:         booking.Title(movieTitle),
		MovieID:       booking.MovieID.String(),
		MovieTitle:    movieTitle,
		SeatLabels:    booking.SeatLabels,
		Seats:         booking.SeatList(),
		SeatCount:     booking.SeatCount(),
		Showtime:      booking.Showtime,
		PaymentStatus: booking.PaymentStatus,
		CreatedAt:     booking.CreatedAt,
	}
}

func BookingToHistoryItem(booking *entity.Booking, movieTitle string) BookingHistoryItem {
	return BookingHistoryItem{
		ID:            booking.ID.String(),
		Reference:     booking.Reference,
		MovieTitle:    movieTitle,
		SeatLabels:    booking.SeatLabels,
		Seats:         booking.SeatList(),
		Showtime:      booking.Showtime,
		BookedOn:      booking.CreatedAt.Format(BookedOnLayout),
		PaymentStatus: booking.PaymentStatus,
	}
}
