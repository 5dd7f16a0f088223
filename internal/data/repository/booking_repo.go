package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error)

	// MarkPaid flips an unpaid booking to paid and reports whether it did.
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, customer_id, movie_id, seat_labels, showtime,
		       payment_status, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, customer_id, movie_id, seat_labels, showtime,
		                      payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.CustomerID,
		booking.MovieID,
		booking.SeatLabels,
		booking.Showtime,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("booking %s: %w", booking.Reference, ErrDuplicate)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC, reference DESC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.log.Error("Failed to find bookings by customer",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find bookings for %s: %w", customerID, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND payment_status = $4
	`

	result, err := r.db.Exec(ctx, query, entity.PaymentStatusPaid, at, id, entity.PaymentStatusUnpaid)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("mark booking %s paid: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.CustomerID,
		&booking.MovieID,
		&booking.SeatLabels,
		&booking.Showtime,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
