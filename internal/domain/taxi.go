package domain

import (
	"time"

	"taxibooking/internal/pkg/validator"
)

type TaxiType string

const (
	TaxiMini    TaxiType = "Mini"
	TaxiSedan   TaxiType = "Sedan"
	TaxiSUV     TaxiType = "SUV"
	TaxiLuxury  TaxiType = "Luxury"
	TaxiPremium TaxiType = "Premium"
)

func (t TaxiType) Valid() bool {
	switch t {
	case TaxiMini, TaxiSedan, TaxiSUV, TaxiLuxury, TaxiPremium:
		return true
	}
	return false
}

type Taxi struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Model         string    `json:"model" validate:"required"`
	VehicleNumber string    `json:"vehicleNumber" validate:"required"`
	Type          TaxiType  `json:"taxiType" validate:"required"`
	Capacity      int       `json:"capacity" validate:"min=1,max=10"`
	PricePerKm    int64     `json:"pricePerKm" validate:"gte=0"`
	DriverName    string    `json:"driverName"`
	DriverPhone   string    `json:"driverPhone"`
	Operator      string    `json:"operator"`
	Rating        float64   `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int       `json:"reviewCount" validate:"gte=0"`
	IsActive      bool      `json:"isActive"`
	IsApproved    bool      `json:"isApproved"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Bookable reports whether the taxi may be booked or show up in search results.
func (t *Taxi) Bookable() bool { return t.IsActive && t.IsApproved }

func (t *Taxi) Validate() error {
	if !t.Type.Valid() {
		return &ValidationError{Field: "taxiType", Msg: "must be one of Mini, Sedan, SUV, Luxury, Premium"}
	}
	if errs := validator.Validate(t); errs != nil {
		return validationFromFields(errs)
	}
	return nil
}
