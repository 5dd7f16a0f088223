package request

type CreateBookingRequest struct {
	SeatLabels []string `json:"seat_labels" validate:"dive,omitempty,seatlabel"`
}

type ConfirmPaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=card upi wallet"`
}
