package models

import (
	"strings"
	"time"
)

// Status of a schedule or of one scheduled date.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusUsed      Status = "Used"
	StatusMissed    Status = "Missed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusUsed, StatusMissed:
		return true
	}
	return false
}

// CarDetails belongs to exactly one Schedule.
type CarDetails struct {
	ID                 string    `bson:"id" json:"carId,omitempty"`
	ScheduleID         string    `bson:"schedule_id" json:"scheduleId,omitempty"`
	UserID             string    `bson:"user_id" json:"-"`
	Make               string    `bson:"car_make" json:"carMake" validate:"notblank"`
	Model              string    `bson:"car_model" json:"carModel" validate:"notblank"`
	RegistrationNumber string    `bson:"registration_number" json:"registrationNumber" validate:"notblank"`
	Color              string    `bson:"color" json:"color" validate:"notblank"`
	AdditionalNotes    string    `bson:"additional_notes,omitempty" json:"additionalNotes,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt,omitempty"`
}

// Complete reports whether the four required fields are non-empty.
func (c CarDetails) Complete() bool {
	return notBlank(c.Make) && notBlank(c.Model) && notBlank(c.RegistrationNumber) && notBlank(c.Color)
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ScheduledDate is one reserved wash.
type ScheduledDate struct {
	ScheduleID string    `bson:"schedule_id" json:"-"`
	Position   int       `bson:"position" json:"-"`
	DateTime   time.Time `bson:"scheduled_date_time" json:"dateTime"`
	Status     Status    `bson:"status" json:"status"`
}

// Schedule is the persisted root record of one booking submission.
type Schedule struct {
	ID          string          `bson:"id" json:"scheduleId"`
	UserID      string          `bson:"user_id" json:"userId"`
	ServiceID   string          `bson:"service_id,omitempty" json:"serviceId,omitempty"`
	PackageName string          `bson:"scheduled_package" json:"scheduledPackage"`
	Status      Status          `bson:"status" json:"status"`
	CarID       string          `bson:"car_id,omitempty" json:"carId,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	Car         *CarDetails     `bson:"-" json:"carDetails,omitempty"`
	Dates       []ScheduledDate `bson:"-" json:"scheduledDates"`
}
