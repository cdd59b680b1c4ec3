package admin

type CreateTaxiRequest struct {
	Name          string `json:"name" binding:"required"`
	Model         string `json:"model" binding:"required"`
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	TaxiType      string `json:"taxiType" binding:"required"`
	Capacity      int    `json:"capacity" binding:"required"`
	PricePerKm    int64  `json:"pricePerKm"`
	DriverName    string `json:"driverName"`
	DriverPhone   string `json:"driverPhone"`
	Operator      string `json:"operator"`
	// Approved defaults to true for taxis an admin adds directly.
	Approved *bool `json:"isApproved"`
}

type CreateRouteRequest struct {
	TaxiID        int64  `json:"taxiId" binding:"required"`
	Source        string `json:"source" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureTime string `json:"departureTime" binding:"required"`
	ArrivalTime   string `json:"arrivalTime" binding:"required"`
	Duration      string `json:"duration"`
	DistanceKm    int    `json:"distance" binding:"required"`
	Price         int64  `json:"price"`
	Offers        string `json:"offers"`
	Discount      int    `json:"discount"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
