package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type Booking struct {
	BaseNoDelete
	Reference     string        `db:"reference"`
	CustomerID    uuid.UUID     `db:"customer_id"`
	MovieID       uuid.UUID     `db:"movie_id"`
	SeatLabels    []string      `db:"seat_labels"`
	Showtime      time.Time     `db:"showtime"`
	PaymentStatus PaymentStatus `db:"payment_status"`
}

func (b *Booking) SeatCount() int {
	return len(b.SeatLabels)
}

// SeatList joins the booked labels the way they are shown to customers, e.g. "A1, A2".
func (b *Booking) SeatList() string {
	return strings.Join(b.SeatLabels, ", ")
}

// Title is the human readable name of the booking, e.g. "Booking for Dune (A1, A2)".
func (b *Booking) Title(movieTitle string) string {
	return fmt.Sprintf("Booking for %s (%s)", movieTitle, b.SeatList())
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}
