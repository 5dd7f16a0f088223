package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService settles bookings without a real gateway: confirming a
// payment records a transaction and marks the booking paid.
type PaymentService interface {
	GetPaymentMethods() []response.PaymentMethodResponse
	GetQuote(ctx context.Context, customerID uuid.UUID, bookingID string) (*response.PaymentQuoteResponse, error)
	ConfirmPayment(ctx context.Context, customerID uuid.UUID, bookingID string, req *request.ConfirmPaymentRequest) (*response.TransactionResponse, error)
}

type paymentService struct {
	store  repository.BookingStore
	config utils.BookingConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewPaymentService(store repository.BookingStore, config utils.BookingConfig, log *zap.Logger) PaymentService {
	return &paymentService{
		store:  store,
		config: config,
		log:    log.With(zap.String("service", "payment")),
		now:    time.Now,
	}
}

func (s *paymentService) GetPaymentMethods() []response.PaymentMethodResponse {
	methods := make([]response.PaymentMethodResponse, len(entity.PaymentMethods))
	for i, m := range entity.PaymentMethods {
		methods[i] = response.PaymentMethodToResponse(m)
	}
	return methods
}

func (s *paymentService) GetQuote(ctx context.Context, customerID uuid.UUID, bookingID string) (*response.PaymentQuoteResponse, error) {
	b, err := loadOwnedBooking(ctx, s.store, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	movie, err := s.store.LoadMovie(ctx, b.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	price := s.ticketPrice(movie)

	quote := &response.PaymentQuoteResponse{
		BookingID:     b.ID.String(),
		Reference:     b.Reference,
		MovieTitle:    movie.Title,
		Seats:         b.SeatList(),
		SeatCount:     b.SeatCount(),
		TicketPrice:   price,
		Amount:        amountFor(b, price),
		PaymentStatus: b.PaymentStatus,
		Methods:       s.GetPaymentMethods(),
	}
	if !b.IsPaid() {
		return quote, nil
	}

	txn, err := s.store.LoadTransaction(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	receipt := response.TransactionToResponse(txn, b.Reference)
	quote.Receipt = &receipt
	quote.Amount = txn.Amount
	return quote, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, customerID uuid.UUID, bookingID string, req *request.ConfirmPaymentRequest) (*response.TransactionResponse, error) {
	b, err := loadOwnedBooking(ctx, s.store, customerID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid() {
		return nil, fmt.Errorf("booking %s: %w", b.Reference, ErrAlreadyPaid)
	}

	movie, err := s.store.LoadMovie(ctx, b.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	now := s.now()
	txn := &entity.Transaction{
		BaseSimple: entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now},
		BookingID:  b.ID,
		Amount:     amountFor(b, s.ticketPrice(movie)),
		Method:     entity.PaymentMethod(req.Method),
		PaidAt:     now,
	}

	if err := s.store.RecordPayment(ctx, b.ID, txn); err != nil {
		s.log.Error("Failed to record payment",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	s.log.Info("Payment recorded",
		zap.String("booking_id", bookingID),
		zap.String("reference", b.Reference),
		zap.String("amount", txn.Amount.StringFixed(2)),
		zap.String("method", req.Method),
	)

	resp := response.TransactionToResponse(txn, b.Reference)
	return &resp, nil
}

// ticketPrice uses the movie's own price and falls back to the configured
// default for movies that never had one.
func (s *paymentService) ticketPrice(movie *entity.Movie) decimal.Decimal {
	if movie.TicketPrice.IsPositive() {
		return movie.TicketPrice
	}
	return s.config.DefaultTicketPrice
}

func amountFor(b *entity.Booking, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(b.SeatCount())))
}
