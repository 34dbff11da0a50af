package models

// Package is a named offer of WashQuota washes usable within DurationDays days.
type Package struct {
	Name         string `bson:"name" json:"name"`
	DurationDays int    `bson:"duration_days" json:"durationDays"`
	WashQuota    int    `bson:"wash_quota" json:"washQuota"`
}
