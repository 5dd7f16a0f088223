package response

import (
	"time"

	"movie-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PaymentMethodResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var paymentMethodNames = map[entity.PaymentMethod]string{
	entity.PaymentMethodCard:   "Credit / Debit Card",
	entity.PaymentMethodUPI:    "UPI",
	entity.PaymentMethodWallet: "Wallet",
}

func PaymentMethodToResponse(method entity.PaymentMethod) PaymentMethodResponse {
	name, ok := paymentMethodNames[method]
	if !ok {
		name = string(method)
	}
	return PaymentMethodResponse{Code: string(method), Name: name}
}

// PaymentQuoteResponse is what the customer sees before paying. Receipt is
// set once the booking is paid.
type PaymentQuoteResponse struct {
	BookingID     string                  `json:"booking_id"`
	Reference     string                  `json:"reference"`
	MovieTitle    string                  `json:"movie_title"`
	Seats         string                  `json:"seats"`
	SeatCount     int                     `json:"seat_count"`
	TicketPrice   decimal.Decimal         `json:"ticket_price"`
	Amount        decimal.Decimal         `json:"amount"`
	PaymentStatus entity.PaymentStatus    `json:"payment_status"`
	Methods       []PaymentMethodResponse `json:"methods"`
	Receipt       *TransactionResponse    `json:"receipt,omitempty"`
}

type TransactionResponse struct {
	ID        string               `json:"id"`
	BookingID string               `json:"booking_id"`
	Reference string               `json:"reference"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    entity.PaymentMethod `json:"method"`
	PaidAt    time.Time            `json:"paid_at"`
}

func TransactionToResponse(txn *entity.Transaction, reference string) TransactionResponse {
	return TransactionResponse{
		ID:        txn.ID.String(),
		BookingID: txn.BookingID.String(),
		Reference: reference,
		Amount:    txn.Amount,
		Method:    txn.Method,
		PaidAt:    txn.PaidAt,
	}
}
