package models

// CheckoutRequest is what the reconciler hands to the payment collaborator.
// Amounts are in the currency's minor unit.
type CheckoutRequest struct {
	BookingID   string
	GuestID     string
	RoomTitle   string
	Nights      int
	NightlyRate int64
	ServiceFee  int64
	Currency    string
	SuccessURL  string
	CancelURL   string

	// IdempotencyKey lets the provider collapse retried creations for the
	// same booking version into one session.
	IdempotencyKey string
}

// Total is the amount the guest is charged.
func (r CheckoutRequest) Total() int64 {
	return r.NightlyRate*int64(r.Nights) + r.ServiceFee
}

// CheckoutSession is the collaborator's answer to a checkout request.
type CheckoutSession struct {
	ID          string `json:"id"`
	RedirectURL string `json:"sessionUrl"`
}

// CheckoutResult is a verified view of a completed or abandoned session.
type CheckoutResult struct {
	SessionID string
	BookingID string
	GuestID   string
	Paid      bool
}

// BookingEventPayload is the asynq payload for booking lifecycle tasks.
type BookingEventPayload struct {
	BookingID string        `json:"bookingId"`
	RoomID    string        `json:"roomId"`
	GuestID   string        `json:"guestId"`
	Status    BookingStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
}
