package booking

type StopRequest struct {
	Location string `json:"location"`
	Time     string `json:"time"`
}

type CreateBookingRequest struct {
	TaxiID         int64        `json:"taxiId"`
	RouteID        int64        `json:"routeId"`
	RideDate       string       `json:"rideDate"`
	PassengerCount int          `json:"passengerCount"`
	PassengerName  string       `json:"passengerName"`
	PassengerPhone string       `json:"passengerPhone"`
	PickupLocation *StopRequest `json:"pickupLocation"`
	DropLocation   *StopRequest `json:"dropLocation"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	TransactionID string `json:"transactionId"`
}
