package models

// DashboardUser is the profile block shown above a user's schedules.
type DashboardUser struct {
	UserID     string       `json:"userId"`
	FullName   string       `json:"fullName"`
	Email      string       `json:"email"`
	CarDetails []CarDetails `json:"carDetails"`
}

// DashboardDate is a scheduled date as rendered on the dashboard.
type DashboardDate struct {
	DateTime string `json:"dateTime"`
	Status   Status `json:"status"`
}

// DashboardSchedule is the read model of one schedule.
type DashboardSchedule struct {
	ScheduleID       string          `json:"scheduleId"`
	ScheduledPackage string          `json:"scheduledPackage"`
	Status           Status          `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	CarDetails       *CarDetails     `json:"carDetails,omitempty"`
	ScheduledDates   []DashboardDate `json:"scheduledDates"`
}

type Dashboard struct {
	User      DashboardUser       `json:"user"`
	Schedules []DashboardSchedule `json:"schedules"`
}
