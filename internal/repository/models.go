package repository

import (
	"time"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	Code               string     `gorm:"column:booking_code;size:32;not null;uniqueIndex:idx_bookings_code"`
	UserID             int64      `gorm:"column:user_id;not null;index:idx_bookings_user_created,priority:1"`
	TaxiID             int64      `gorm:"column:taxi_id;not null;index:idx_bookings_day_taxi,priority:2"`
	RouteID            int64      `gorm:"column:route_id;not null;index:idx_bookings_route_day,priority:1"`
	RideDate           time.Time  `gorm:"column:ride_date;not null"`
	RideDay            string     `gorm:"column:ride_day;size:10;not null;index:idx_bookings_day_taxi,priority:1;index:idx_bookings_route_day,priority:2"`
	PassengerCount     int        `gorm:"column:passenger_count;not null"`
	PassengerName      string     `gorm:"column:passenger_name;not null"`
	PassengerPhone     string     `gorm:"column:passenger_phone;not null"`
	PickupLocation     *string    `gorm:"column:pickup_location"`
	PickupTime         *string    `gorm:"column:pickup_time"`
	DropLocation       *string    `gorm:"column:drop_location"`
	DropTime           *string    `gorm:"column:drop_time"`
	TotalAmount        int64      `gorm:"column:total_amount;not null"`
	PaymentStatus      string     `gorm:"column:payment_status;size:16;not null;default:pending"`
	PaymentMethod      *string    `gorm:"column:payment_method;size:16"`
	TransactionID      *string    `gorm:"column:transaction_id"`
	Status             string     `gorm:"column:booking_status;size:16;not null;default:confirmed"`
	CancellationReason *string    `gorm:"column:cancellation_reason;type:text"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	RefundAmount       int64      `gorm:"column:refund_amount;not null;default:0"`
	Version            int64      `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time  `gorm:"column:created_at;index:idx_bookings_user_created,priority:2,sort:desc"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type taxiModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Model         string    `gorm:"column:model;not null"`
	VehicleNumber string    `gorm:"column:vehicle_number;size:32;not null;uniqueIndex"`
	Type          string    `gorm:"column:taxi_type;size:16;not null"`
	Capacity      int       `gorm:"column:capacity;not null;default:4"`
	PricePerKm    int64     `gorm:"column:price_per_km;not null"`
	DriverName    string    `gorm:"column:driver_name"`
	DriverPhone   string    `gorm:"column:driver_phone"`
	Operator      string    `gorm:"column:operator"`
	Rating        float64   `gorm:"column:rating;not null;default:0"`
	ReviewCount   int       `gorm:"column:review_count;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null"`
	IsApproved    bool      `gorm:"column:is_approved;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (taxiModel) TableName() string { return "taxis" }

type routeModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	TaxiID        int64     `gorm:"column:taxi_id;not null;index"`
	Source        string    `gorm:"column:source;not null;index:idx_routes_search,priority:1"`
	Destination   string    `gorm:"column:destination;not null;index:idx_routes_search,priority:2"`
	DepartureTime string    `gorm:"column:departure_time;size:5;not null"`
	ArrivalTime   string    `gorm:"column:arrival_time;size:5;not null"`
	Duration      string    `gorm:"column:duration"`
	DistanceKm    int       `gorm:"column:distance_km;not null"`
	Price         int64     `gorm:"column:price;not null"`
	Offers        *string   `gorm:"column:offers"`
	Discount      int       `gorm:"column:discount;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;index:idx_routes_search,priority:3"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (routeModel) TableName() string { return "routes" }

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:16;not null;default:user"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_user_booking,priority:1"`
	TaxiID    int64     `gorm:"column:taxi_id;not null;index"`
	BookingID int64     `gorm:"column:booking_id;not null;uniqueIndex:idx_reviews_user_booking,priority:2"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

// noDoubleBookingIndex is the store-level guarantee that at most one confirmed
// booking exists per taxi, route and ride day. Both Postgres and SQLite accept
// partial indexes.
const noDoubleBookingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_no_double_booking
ON bookings (taxi_id, route_id, ride_day)
WHERE booking_status = 'confirmed'`

// Migrate creates or updates every table this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&taxiModel{},
		&routeModel{},
		&bookingModel{},
		&reviewModel{},
	); err != nil {
		return err
	}
	return db.Exec(noDoubleBookingIndex).Error
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:             m.ID,
		Code:           m.Code,
		UserID:         m.UserID,
		TaxiID:         m.TaxiID,
		RouteID:        m.RouteID,
		RideDate:       m.RideDate,
		RideDay:        m.RideDay,
		PassengerCount: m.PassengerCount,
		Passenger: domain.PassengerContact{
			Name:  m.PassengerName,
			Phone: m.PassengerPhone,
		},
		Pickup:             domain.Stop{Location: strVal(m.PickupLocation), Time: strVal(m.PickupTime)},
		Drop:               domain.Stop{Location: strVal(m.DropLocation), Time: strVal(m.DropTime)},
		TotalAmount:        m.TotalAmount,
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		PaymentMethod:      domain.PaymentMethod(strVal(m.PaymentMethod)),
		TransactionID:      strVal(m.TransactionID),
		Status:             domain.BookingStatus(m.Status),
		CancellationReason: strVal(m.CancellationReason),
		CancelledAt:        m.CancelledAt,
		RefundAmount:       m.RefundAmount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		Version:            m.Version,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                 b.ID,
		Code:               b.Code,
		UserID:             b.UserID,
		TaxiID:             b.TaxiID,
		RouteID:            b.RouteID,
		RideDate:           b.RideDate,
		RideDay:            b.RideDay,
		PassengerCount:     b.PassengerCount,
		PassengerName:      b.Passenger.Name,
		PassengerPhone:     b.Passenger.Phone,
		PickupLocation:     strPtr(b.Pickup.Location),
		PickupTime:         strPtr(b.Pickup.Time),
		DropLocation:       strPtr(b.Drop.Location),
		DropTime:           strPtr(b.Drop.Time),
		TotalAmount:        b.TotalAmount,
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      strPtr(string(b.PaymentMethod)),
		TransactionID:      strPtr(b.TransactionID),
		Status:             string(b.Status),
		CancellationReason: strPtr(b.CancellationReason),
		CancelledAt:        b.CancelledAt,
		RefundAmount:       b.RefundAmount,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toDomainTaxi(m taxiModel) *domain.Taxi {
	return &domain.Taxi{
		ID:            m.ID,
		Name:          m.Name,
		Model:         m.Model,
		VehicleNumber: m.VehicleNumber,
		Type:          domain.TaxiType(m.Type),
		Capacity:      m.Capacity,
		PricePerKm:    m.PricePerKm,
		DriverName:    m.DriverName,
		DriverPhone:   m.DriverPhone,
		Operator:      m.Operator,
		Rating:        m.Rating,
		ReviewCount:   m.ReviewCount,
		IsActive:      m.IsActive,
		IsApproved:    m.IsApproved,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toTaxiModel(t *domain.Taxi) taxiModel {
	return taxiModel{
		ID:            t.ID,
		Name:          t.Name,
		Model:         t.Model,
		VehicleNumber: t.VehicleNumber,
		Type:          string(t.Type),
		Capacity:      t.Capacity,
		PricePerKm:    t.PricePerKm,
		DriverName:    t.DriverName,
		DriverPhone:   t.DriverPhone,
		Operator:      t.Operator,
		Rating:        t.Rating,
		ReviewCount:   t.ReviewCount,
		IsActive:      t.IsActive,
		IsApproved:    t.IsApproved,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toDomainRoute(m routeModel) *domain.Route {
	return &domain.Route{
		ID:            m.ID,
		TaxiID:        m.TaxiID,
		Source:        m.Source,
		Destination:   m.Destination,
		DepartureTime: m.DepartureTime,
		ArrivalTime:   m.ArrivalTime,
		Duration:      m.Duration,
		DistanceKm:    m.DistanceKm,
		Price:         m.Price,
		Offers:        strVal(m.Offers),
		Discount:      m.Discount,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toRouteModel(r *domain.Route) routeModel {
	return routeModel{
		ID:            r.ID,
		TaxiID:        r.TaxiID,
		Source:        r.Source,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		Duration:      r.Duration,
		DistanceKm:    r.DistanceKm,
		Price:         r.Price,
		Offers:        strPtr(r.Offers),
		Discount:      r.Discount,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        strVal(m.Phone),
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		TaxiID:    m.TaxiID,
		BookingID: m.BookingID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}
