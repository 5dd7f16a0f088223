// Package booking turns a seat selection into a sold seat map and a booking
// record. It performs no I/O; callers persist both results together.
package booking

import (
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/seatmap"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() uuid.UUID
	NewReference(now time.Time) string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type uuidGenerator struct{}

func (uuidGenerator) NewID() uuid.UUID { return utils.GenerateUUID() }

func (uuidGenerator) NewReference(now time.Time) string { return utils.GenerateBookingRef(now) }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

// UUIDGenerator issues random v4 IDs and BOOK-... references.
func UUIDGenerator() IDGenerator { return uuidGenerator{} }

type Transactor struct {
	clock Clock
	ids   IDGenerator
}

func NewTransactor(clock Clock, ids IDGenerator) *Transactor {
	if clock == nil {
		clock = SystemClock()
	}
	if ids == nil {
		ids = UUIDGenerator()
	}
	return &Transactor{clock: clock, ids: ids}
}

// Apply checks every requested label against current and, only if all of them
// exist and are available, returns a copy of current with those seats sold
// plus the unpaid booking that owns them. current is never modified.
func (t *Transactor) Apply(
	current seatmap.SeatMap,
	requested []string,
	customerID, movieID uuid.UUID,
	showtime time.Time,
) (seatmap.SeatMap, *entity.Booking, error) {
	labels := uniqueLabels(requested)
	if len(labels) == 0 {
		return seatmap.SeatMap{}, nil, ErrEmptySelection
	}

	for _, label := range labels {
		seat, ok := current.Find(label)
		if !ok {
			return seatmap.SeatMap{}, nil, &UnknownSeatError{Label: label}
		}
		if seat.Status == seatmap.StatusSold {
			return seatmap.SeatMap{}, nil, &SeatUnavailableError{Label: label}
		}
	}

	next := current.MarkSold(labels)

	now := t.clock.Now()
	b := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        t.ids.NewID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:     t.ids.NewReference(now),
		CustomerID:    customerID,
		MovieID:       movieID,
		SeatLabels:    labels,
		Showtime:      showtime,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}

	return next, b, nil
}

// uniqueLabels trims labels, drops blanks and repeats, and keeps first-seen order.
func uniqueLabels(requested []string) []string {
	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, raw := range requested {
		label := seatmap.NormalizeLabel(raw)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
