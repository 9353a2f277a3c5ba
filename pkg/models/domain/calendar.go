package domain

import "time"

// EventCategory is one of the five activity buckets derived from the
// calendar's color code.
type EventCategory string

const (
	CategoryMeeting  EventCategory = "meeting"
	CategoryProduct  EventCategory = "product"
	CategoryOps      EventCategory = "ops"
	CategoryGrowth   EventCategory = "growth"
	CategoryPersonal EventCategory = "personal"
)

type Attendee struct {
	Name  string
	Email string
}

type CalendarEvent struct {
	Title           string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Attendees       []Attendee
	Category        EventCategory
	IsExternal      bool // any attendee outside the owner's domain
	HasVideoLink    bool
	Location        string
}

// TimeSlot is a free interval inside today's working hours.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// CalendarDigest is the calendar collector's result for one run.
type CalendarDigest struct {
	Today       []CalendarEvent
	Upcoming    []CalendarEvent
	WeeklyHours map[EventCategory]float64
	FreeToday   []TimeSlot
}
