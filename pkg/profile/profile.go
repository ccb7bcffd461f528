package profile

import (
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
)

type NotificationPermission string

const (
	PermissionDefault NotificationPermission = "default"
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
)

func (p NotificationPermission) IsValid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return true
	default:
		return false
	}
}

// Profile describes the person the plans and strategies are generated for.
type Profile struct {
	Id             int
	Uid            string
	Name           string
	Major          string
	Hobbies        []string
	BusinessName   string
	Sports         []string
	WeekendSports  bool
	Goals          []string
	SchoolSchedule string // free-text timetable, passed verbatim to the generator
	Timezone       string
	Notifications  NotificationPermission
}

// Location returns the profile's timezone, UTC when unset or unknown.
func (p Profile) Location() *time.Location {
	return utils.LoadLocation(p.Timezone)
}

// FirstName is the first word of Name, used in greetings.
func (p Profile) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

// Default returns the starting profile for a fresh installation.
func Default() Profile {
	return Profile{
		Name:          "Future Geo-Tycoon",
		Major:         "Geomatics",
		Hobbies:       []string{"Trading", "Cybersecurity", "Programming (GIS & General)"},
		BusinessName:  "MyNexRyde",
		Sports:        []string{"Volleyball", "Gym"},
		WeekendSports: true,
		Goals: []string{
			"Master Geospatial Data Science",
			"Automate Trading Strategies with Python",
			"Secure GIS Infrastructure",
			"Scale MyNexRyde Business",
		},
		SchoolSchedule: "Monday: 09:00-12:00 GIS Lab\nWednesday: 14:00-16:00 Remote Sensing Lecture",
		Timezone:       "UTC",
		Notifications:  PermissionDefault,
	}
}
