package domain

import (
	"time"

	"taxibooking/internal/pkg/validator"
)

type Route struct {
	ID            int64     `json:"id"`
	TaxiID        int64     `json:"taxiId" validate:"required"`
	Source        string    `json:"source" validate:"required"`
	Destination   string    `json:"destination" validate:"required"`
	DepartureTime string    `json:"departureTime" validate:"required,hhmm"`
	ArrivalTime   string    `json:"arrivalTime" validate:"required,hhmm"`
	Duration      string    `json:"duration"`
	DistanceKm    int       `json:"distance" validate:"min=1"`
	Price         int64     `json:"price" validate:"gte=0"`
	Offers        string    `json:"offers,omitempty"`
	Discount      int       `json:"discount" validate:"min=0,max=100"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RouteAvailability is one search hit. Unavailable routes are never returned,
// so IsAvailable is always true on the wire; it is kept for client compatibility.
type RouteAvailability struct {
	RouteID        int64  `json:"id"`
	Taxi           *Taxi  `json:"taxi"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	Duration       string `json:"duration"`
	DistanceKm     int    `json:"distance"`
	Price          int64  `json:"price"`
	IsAvailable    bool   `json:"isAvailable"`
	AvailableSeats int    `json:"availableSeats"`
	Offers         string `json:"offers,omitempty"`
	Discount       int    `json:"discount"`
}

func (r *Route) Validate() error {
	if errs := validator.Validate(r); errs != nil {
		return validationFromFields(errs)
	}
	return nil
}
