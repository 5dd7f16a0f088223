package request

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ShowtimeLayout is the accepted format for showtimes in requests.
const ShowtimeLayout = "2006-01-02T15:04:05Z07:00"

type MovieRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Genre       *string          `json:"genre,omitempty" validate:"omitempty,max=100"`
	PosterURL   *string          `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating      *float64         `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Showtime    string           `json:"showtime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TotalSeats  int              `json:"total_seats" validate:"gte=0,lte=2000"`
	TicketPrice *decimal.Decimal `json:"ticket_price,omitempty"`

	// SeatMap optionally replaces the generated grid with an edited one.
	// It must decode and hold exactly TotalSeats seats.
	SeatMap json.RawMessage `json:"seat_map,omitempty"`
}

// MovieUpdateRequest only touches descriptive fields. Seat count and seat map
// are fixed once a movie exists.
type MovieUpdateRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Genre       *string          `json:"genre,omitempty" validate:"omitempty,max=100"`
	PosterURL   *string          `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating      *float64         `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Showtime    *string          `json:"showtime,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TicketPrice *decimal.Decimal `json:"ticket_price,omitempty"`
}
