package response

import (
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/seatmap"
)

type RowResponse struct {
	Label string         `json:"label"`
	Seats []seatmap.Seat `json:"seats"`
}

// SeatMapResponse lists rows as an array so clients keep display order.
type SeatMapResponse struct {
	MovieID   string        `json:"movie_id"`
	Title     string        `json:"title"`
	Showtime  time.Time     `json:"showtime"`
	Total     int           `json:"total"`
	Available int           `json:"available"`
	Sold      int           `json:"sold"`
	Rows      []RowResponse `json:"rows"`
}

func SeatMapToResponse(movie *entity.Movie) SeatMapResponse {
	available, sold := movie.SeatMap.Counts()

	rows := make([]RowResponse, len(movie.SeatMap.Rows))
	for i, row := range movie.SeatMap.Rows {
		seats := make([]seatmap.Seat, len(row.Seats))
		copy(seats, row.Seats)
		rows[i] = RowResponse{Label: row.Label, Seats: seats}
	}

	return SeatMapResponse{
		MovieID:   movie.ID.String(),
		Title:     movie.Title,
		Showtime:  movie.Showtime,
		Total:     available + sold,
		Available: available,
		Sold:      sold,
		Rows:      rows,
	}
}
