package domain

import (
	"strings"
	"time"

	"taxibooking/internal/pkg/validator"
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId" validate:"required"`
	TaxiID    int64     `json:"taxiId" validate:"required"`
	BookingID int64     `json:"bookingId" validate:"required"`
	Rating    int       `json:"rating" validate:"min=1,max=5"`
	Comment   string    `json:"comment" validate:"required,max=500"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewReview(userID, taxiID, bookingID int64, rating int, comment string) (*Review, error) {
	r := &Review{
		UserID:    userID,
		TaxiID:    taxiID,
		BookingID: bookingID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if errs := validator.Validate(r); errs != nil {
		return nil, validationFromFields(errs)
	}
	return r, nil
}

// RatingSummary is the aggregate the rating aggregator writes back to a taxi.
type RatingSummary struct {
	TaxiID  int64
	Average float64
	Count   int
}
