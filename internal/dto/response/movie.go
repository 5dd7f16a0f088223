package response

import (
	"time"

	"movie-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type MovieResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	Genre          *string         `json:"genre,omitempty"`
	PosterURL      *string         `json:"poster_url,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	Showtime       time.Time       `json:"showtime"`
	TotalSeats     int             `json:"total_seats"`
	TicketPrice    decimal.Decimal `json:"ticket_price"`
	AvailableSeats int             `json:"available_seats"`
	SoldSeats      int             `json:"sold_seats"`
	CreatedAt      time.Time       `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	available, sold := movie.SeatMap.Counts()

	return MovieResponse{
		ID:             movie.ID.String(),
		Title:          movie.Title,
		Description:    movie.Description,
		Genre:          movie.Genre,
		PosterURL:      movie.PosterURL,
		Rating:         movie.Rating,
		Showtime:       movie.Showtime,
		TotalSeats:     movie.TotalSeats,
		TicketPrice:    movie.TicketPrice,
		AvailableSeats: available,
		SoldSeats:      sold,
		CreatedAt:      movie.CreatedAt,
	}
}

func MovieToDetailResponse(movie *entity.Movie) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		Version:       movie.Version,
		UpdatedAt:     movie.UpdatedAt,
	}
}
