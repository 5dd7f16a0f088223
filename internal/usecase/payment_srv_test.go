package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/seatmap"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var paidAt = time.Date(2025, 11, 3, 20, 0, 0, 0, time.UTC)

func seedBooking(t *testing.T, store *memStore, price decimal.Decimal, labels ...string) (*entity.Booking, uuid.UUID) {
	t.Helper()

	movie := &entity.Movie{Title: "Dune", TotalSeats: 8, TicketPrice: price, SeatMap: seatmap.Generate(8, 8)}
	require.NoError(t, store.SaveMovie(context.Background(), movie))

	customer := uuid.New()
	b := &entity.Booking{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New()},
		Reference:     "BOOK-20251103-193000-0042",
		CustomerID:    customer,
		MovieID:       movie.ID,
		SeatLabels:    labels,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	require.NoError(t, store.SaveBooking(context.Background(), b))
	return b, customer
}

func newTestPaymentService(store *memStore) *paymentService {
	svc := NewPaymentService(store, testBookingConfig(), zap.NewNop()).(*paymentService)
	svc.now = func() time.Time { return paidAt }
	return svc
}

func TestGetQuote(t *testing.T) {
	tests := []struct {
		name       string
		price      decimal.Decimal
		labels     []string
		wantAmount string
	}{
		{name: "movie price", price: decimal.NewFromInt(150), labels: []string{"A1", "A2"}, wantAmount: "300"},
		{name: "default price", price: decimal.Zero, labels: []string{"A1", "A2", "A3"}, wantAmount: "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			b, customer := seedBooking(t, store, tt.price, tt.labels...)

			quote, err := newTestPaymentService(store).GetQuote(context.Background(), customer, b.ID.String())
			require.NoError(t, err)

			assert.Equal(t, tt.wantAmount, quote.Amount.String())
			assert.Equal(t, len(tt.labels), quote.SeatCount)
			assert.Equal(t, "Dune", quote.MovieTitle)
			assert.Len(t, quote.Methods, 3)
		})
	}
}

func TestConfirmPayment(t *testing.T) {
	store := newMemStore()
	b, customer := seedBooking(t, store, decimal.NewFromInt(150), "A1", "A2")
	svc := newTestPaymentService(store)

	resp, err := svc.ConfirmPayment(context.Background(), customer, b.ID.String(), &request.ConfirmPaymentRequest{Method: "upi"})
	require.NoError(t, err)

	assert.Equal(t, "300", resp.Amount.String())
	assert.Equal(t, entity.PaymentMethodUPI, resp.Method)
	assert.Equal(t, paidAt, resp.PaidAt)

	stored, _ := store.LoadBooking(context.Background(), b.ID)
	assert.True(t, stored.IsPaid())
	txn, err := store.LoadTransaction(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, txn.BookingID)

	_, err = svc.ConfirmPayment(context.Background(), customer, b.ID.String(), &request.ConfirmPaymentRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestGetQuote_PaidBookingCarriesReceipt(t *testing.T) {
	store := newMemStore()
	b, customer := seedBooking(t, store, decimal.NewFromInt(150), "A1", "A2")
	svc := newTestPaymentService(store)

	quote, err := svc.GetQuote(context.Background(), customer, b.ID.String())
	require.NoError(t, err)
	assert.Nil(t, quote.Receipt)

	paid, err := svc.ConfirmPayment(context.Background(), customer, b.ID.String(), &request.ConfirmPaymentRequest{Method: "wallet"})
	require.NoError(t, err)

	quote, err = svc.GetQuote(context.Background(), customer, b.ID.String())
	require.NoError(t, err)
	require.NotNil(t, quote.Receipt)
	assert.Equal(t, *paid, *quote.Receipt)
	assert.Equal(t, entity.PaymentStatusPaid, quote.PaymentStatus)
	assert.Equal(t, "300", quote.Amount.String())
}

func TestConfirmPayment_OtherCustomer(t *testing.T) {
	store := newMemStore()
	b, _ := seedBooking(t, store, decimal.NewFromInt(150), "A1")

	_, err := newTestPaymentService(store).ConfirmPayment(context.Background(), uuid.New(), b.ID.String(),
		&request.ConfirmPaymentRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, _ := store.LoadBooking(context.Background(), b.ID)
	assert.False(t, stored.IsPaid())
}

func TestGetPaymentMethods(t *testing.T) {
	methods := newTestPaymentService(newMemStore()).GetPaymentMethods()

	codes := make([]string, len(methods))
	for i, m := range methods {
		codes[i] = m.Code
	}
	assert.Equal(t, []string{"card", "upi", "wallet"}, codes)
}
