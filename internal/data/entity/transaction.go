package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet}

// Transaction is the audit record written when a booking is paid.
type Transaction struct {
	BaseSimple
	BookingID uuid.UUID       `db:"booking_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    PaymentMethod   `db:"method"`
	PaidAt    time.Time       `db:"paid_at"`
}
