package model

import (
	"context"
	"time"
)

// Weekday names one of the seven days a member can mark availability for.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists the days in the order an availability sequence must follow.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Time-block labels a member can mark as available.
const (
	HourBlockMorning   = "06-12"
	HourBlockAfternoon = "12-18"
	HourBlockEvening   = "18-24"
)

// ValidHourBlock reports whether the label is one of the known time blocks.
func ValidHourBlock(label string) bool {
	switch label {
	case HourBlockMorning, HourBlockAfternoon, HourBlockEvening:
		return true
	}
	return false
}

// DayAvailability holds the time blocks a member is free on a single day.
type DayAvailability struct {
	Day   Weekday  `json:"day"`
	Hours []string `json:"hours"`
}

// Strength is a rated skill. Rating 0 means unrated.
type Strength struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// MaxStrengthRating is the upper bound of a strength rating.
const MaxStrengthRating = 5

// Member is a user's profile once attached to a family. Immutable after
// creation; there is no edit or removal path.
type Member struct {
	ID           string            `json:"id"`
	Username     string            `json:"username"`
	Age          int               `json:"age"`
	Availability []DayAvailability `json:"availability"`
	Strengths    []Strength        `json:"strengths"`
}

// FamilyProfile is the shared group record. Code is the 6-character uppercase
// alphanumeric join code and acts as the external lookup key. Admin is empty
// until the first member joins and then equals Members[0].ID forever.
type FamilyProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Admin     string    `json:"admin"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// FamilyCache is the device-local family directory keyed by join code.
type FamilyCache interface {
	Get(ctx context.Context, code string) (FamilyProfile, error)
	GetByID(ctx context.Context, id string) (FamilyProfile, error)
	Put(ctx context.Context, family FamilyProfile) error
}

// AttachParams carries everything needed to attach a user to a family.
type AttachParams struct {
	User         User
	Age          int
	Availability []DayAvailability
	Strengths    []Strength
}
