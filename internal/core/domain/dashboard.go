package domain

// DashboardData aggregates the admin overview counters.
type DashboardData struct {
	Cars       CarStats       `json:"cars"`
	TestDrives TestDriveStats `json:"test_drives"`
}

type CarStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Sold        int `json:"sold"`
}

type TestDriveStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
	// ConversionRate is completed test drives as a percentage of all
	// bookings.
	ConversionRate float64 `json:"conversion_rate"`
}
