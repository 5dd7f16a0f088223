package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error)
}

type transactionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTransactionRepository(db database.Querier, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, booking_id, amount, method, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.BookingID,
		txn.Amount,
		txn.Method,
		txn.PaidAt,
		txn.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("booking_id", txn.BookingID.String()),
		)
		return fmt.Errorf("create transaction for %s: %w", txn.BookingID, err)
	}

	return nil
}

func (r *transactionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error) {
	query := `
		SELECT id, booking_id, amount, method, paid_at, created_at
		FROM transactions
		WHERE booking_id = $1
		ORDER BY paid_at DESC
		LIMIT 1
	`

	var txn entity.Transaction
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&txn.ID,
		&txn.BookingID,
		&txn.Amount,
		&txn.Method,
		&txn.PaidAt,
		&txn.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find transaction for %s: %w", bookingID, err)
	}

	return &txn, nil
}
