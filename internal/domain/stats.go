package domain

// PlatformStats is the admin dashboard summary. Revenue counts paid bookings
// only, in minor units.
type PlatformStats struct {
	Bookings struct {
		Total     int64 `json:"total"`
		Confirmed int64 `json:"confirmed"`
		Cancelled int64 `json:"cancelled"`
		Completed int64 `json:"completed"`
	} `json:"bookings"`
	Revenue int64 `json:"revenue"`
	Taxis   int64 `json:"taxis"`
	Routes  int64 `json:"routes"`
	Users   int64 `json:"users"`
}
