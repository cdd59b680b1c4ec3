package domain

import (
	"strings"
	"time"

	"taxibooking/internal/pkg/validator"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
	PaymentWallet     PaymentMethod = "wallet"
	PaymentCash       PaymentMethod = "cash"
)

// ParsePaymentMethod accepts the method case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentCard, PaymentUPI, PaymentNetbanking, PaymentWallet, PaymentCash:
		return m, nil
	}
	return "", &ValidationError{Field: "paymentMethod", Msg: "must be one of card, upi, netbanking, wallet, cash"}
}

const (
	MinPassengers = 1
	MaxPassengers = 7
)

// Stop is a pickup or drop sub-location with an optional "HH:MM" time.
type Stop struct {
	Location string `json:"location"`
	Time     string `json:"time,omitempty"`
}

type PassengerContact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type Booking struct {
	ID                 int64            `json:"id"`
	Code               string           `json:"bookingId"`
	UserID             int64            `json:"userId" validate:"required"`
	TaxiID             int64            `json:"taxiId" validate:"required"`
	RouteID            int64            `json:"routeId" validate:"required"`
	RideDate           time.Time        `json:"rideDate" validate:"required"`
	RideDay            string           `json:"rideDay"`
	PassengerCount     int              `json:"passengerCount" validate:"min=1,max=7"`
	Passenger          PassengerContact `json:"passenger"`
	Pickup             Stop             `json:"pickupLocation"`
	Drop               Stop             `json:"dropLocation"`
	TotalAmount        int64            `json:"totalAmount" validate:"gte=0"`
	PaymentStatus      PaymentStatus    `json:"paymentStatus"`
	PaymentMethod      PaymentMethod    `json:"paymentMethod,omitempty"`
	TransactionID      string           `json:"transactionId,omitempty"`
	Status             BookingStatus    `json:"bookingStatus"`
	CancellationReason string           `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
	RefundAmount       int64            `json:"refundAmount" validate:"gte=0,ltefield=TotalAmount"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`

	// Version is the optimistic concurrency token checked on every update.
	Version int64 `json:"-"`
}

type NewBookingParams struct {
	UserID         int64
	TaxiID         int64
	RouteID        int64
	RideDate       time.Time
	Window         DayWindow
	PassengerCount int
	Passenger      PassengerContact
	Pickup         Stop
	Drop           Stop
	TotalAmount    int64
}

// NewBooking builds a confirmed, unpaid booking. The booking code is assigned
// separately because it may need regenerating on collision.
func NewBooking(p NewBookingParams) (*Booking, error) {
	b := &Booking{
		UserID:         p.UserID,
		TaxiID:         p.TaxiID,
		RouteID:        p.RouteID,
		RideDate:       p.RideDate,
		RideDay:        p.Window.Key(),
		PassengerCount: p.PassengerCount,
		Passenger: PassengerContact{
			Name:  strings.TrimSpace(p.Passenger.Name),
			Phone: strings.TrimSpace(p.Passenger.Phone),
		},
		Pickup:        p.Pickup,
		Drop:          p.Drop,
		TotalAmount:   p.TotalAmount,
		PaymentStatus: PaymentPending,
		Status:        BookingConfirmed,
	}
	if errs := validator.Validate(b); errs != nil {
		return nil, validationFromFields(errs)
	}
	return b, nil
}

func (b *Booking) IsCancelled() bool { return b.Status == BookingCancelled }

// OwnedBy reports whether userID made the booking.
func (b *Booking) OwnedBy(userID int64) bool { return b.UserID == userID }
