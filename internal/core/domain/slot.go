package domain

// TimeSlot is a one-hour bookable interval within a day's open hours.
type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
