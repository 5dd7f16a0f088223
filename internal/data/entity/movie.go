package entity

import (
	"time"

	"movie-booking/internal/seatmap"

	"github.com/shopspring/decimal"
)

type Movie struct {
	BaseNoDelete
	Title       string          `db:"title"`
	Description *string         `db:"description"`
	Genre       *string         `db:"genre"`
	PosterURL   *string         `db:"poster_url"`
	Rating      *float64        `db:"rating"`
	Showtime    time.Time       `db:"showtime"`
	TotalSeats  int             `db:"total_seats"`
	TicketPrice decimal.Decimal `db:"ticket_price"`
	SeatMap     seatmap.SeatMap `db:"seat_map"`

	// Version is bumped on every write and checked on update so a stale
	// seat map can never overwrite a newer one.
	Version int `db:"version"`
}
