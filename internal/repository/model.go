package repository

import (
	"fmt"
	"strings"
	"time"
)

// DatetimeLayout is the format users type into the modal (YYYY-MM-DD HH:mm).
const DatetimeLayout = "2006-01-02 15:04"

const locationSeparator = " - "

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Datetime    string `json:"datetime"`
	Timestamp   int64  `json:"timestamp"`
	Building    string `json:"building"`
	Room        string `json:"room"`
}

func (e Event) Location() Location {
	return Location{Building: e.Building, Room: e.Room}
}

// Location is a building/room pair. Label and ParseLocation are the only
// places that know about the "building - room" text form shown to users.
type Location struct {
	Building string
	Room     string
}

func (l Location) Label() string {
	return l.Building + locationSeparator + l.Room
}

// ParseLocation splits a label into exactly two parts.
func ParseLocation(label string) (Location, error) {
	parts := strings.Split(label, locationSeparator)
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("location %q must have the form \"building%sroom\"", label, locationSeparator)
	}
	return Location{Building: parts[0], Room: parts[1]}, nil
}

// ParseDatetime returns the epoch seconds of a DatetimeLayout string in loc.
func ParseDatetime(value string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DatetimeLayout, value, loc)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
