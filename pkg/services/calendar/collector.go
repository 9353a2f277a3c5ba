package calendar

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

// colorCategories maps Google Calendar colorId values to activity buckets.
// The mapping mirrors how the calendar owner actually colors events; an
// unmapped or empty colorId counts as a meeting.
var colorCategories = map[string]domain.EventCategory{
	"1":  domain.CategoryPersonal, // lavender
	"2":  domain.CategoryGrowth,   // sage
	"3":  domain.CategoryPersonal, // grape
	"4":  domain.CategoryGrowth,   // flamingo
	"5":  domain.CategoryOps,      // banana
	"6":  domain.CategoryOps,      // tangerine
	"7":  domain.CategoryProduct,  // peacock
	"8":  domain.CategoryProduct,  // graphite
	"9":  domain.CategoryMeeting,  // blueberry
	"10": domain.CategoryProduct,  // basil
	"11": domain.CategoryMeeting,  // tomato
}

var videoLinkPattern = regexp.MustCompile(`(?i)(meet\.google\.com|zoom\.us|teams\.microsoft\.com)/\S+`)

const (
	workdayStartHour = 9
	workdayEndHour   = 19
	minFreeSlot      = 30 * time.Minute
)

// EventLister fetches calendar events inside a window.
type EventLister interface {
	List(ctx context.Context, timeMin, timeMax time.Time) ([]*gcal.Event, error)
}

// GoogleLister backs EventLister with the Calendar API, reading the
// impersonated owner's primary calendar.
type GoogleLister struct {
	svc *gcal.Service
}

func NewGoogleLister(svc *gcal.Service) *GoogleLister {
	return &GoogleLister{svc: svc}
}

func (l *GoogleLister) List(ctx context.Context, timeMin, timeMax time.Time) ([]*gcal.Event, error) {
	call := l.svc.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Collector classifies the owner's events and derives today's free slots and
// weekly time allocation.
type Collector struct {
	lister      EventLister
	ownerDomain string // taken from the subject email, for external tagging
	now         func() time.Time
}

func NewCollector(lister EventLister, subjectEmail string) *Collector {
	ownerDomain := ""
	if at := strings.LastIndex(subjectEmail, "@"); at >= 0 {
		ownerDomain = strings.ToLower(subjectEmail[at+1:])
	}
	return &Collector{
		lister:      lister,
		ownerDomain: ownerDomain,
		now:         func() time.Time { return time.Now().In(kst) },
	}
}

var kst = loadKST()

func loadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}

// Collect fetches events from `back` days ago through `forward` days ahead
// and splits them into today's and upcoming.
func (c *Collector) Collect(ctx context.Context, back, forward int) (*domain.CalendarDigest, error) {
	now := c.now()
	timeMin := now.AddDate(0, 0, -back)
	timeMax := now.AddDate(0, 0, forward)

	items, err := c.lister.List(ctx, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	digest := &domain.CalendarDigest{
		WeeklyHours: make(map[domain.EventCategory]float64),
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var todayBusy []domain.TimeSlot
	for _, item := range items {
		ev, ok := c.convert(item)
		if !ok {
			continue
		}

		digest.WeeklyHours[ev.Category] += float64(ev.DurationMinutes) / 60

		switch {
		case ev.Start.Before(dayEnd) && ev.End.After(dayStart):
			digest.Today = append(digest.Today, ev)
			todayBusy = append(todayBusy, domain.TimeSlot{Start: ev.Start, End: ev.End})
		case ev.Start.After(now):
			digest.Upcoming = append(digest.Upcoming, ev)
		}
	}

	digest.FreeToday = freeSlots(dayStart, todayBusy)

	zerolog.Ctx(ctx).Debug().
		Int("today", len(digest.Today)).
		Int("upcoming", len(digest.Upcoming)).
		Msg("calendar events classified")

	return digest, nil
}

func (c *Collector) convert(item *gcal.Event) (domain.CalendarEvent, bool) {
	start, okStart := eventTime(item.Start)
	end, okEnd := eventTime(item.End)
	if !okStart || !okEnd || !end.After(start) {
		return domain.CalendarEvent{}, false
	}

	ev := domain.CalendarEvent{
		Title:           item.Summary,
		Start:           start.In(kst),
		End:             end.In(kst),
		DurationMinutes: int(end.Sub(start).Minutes()),
		Category:        classify(item.ColorId),
		Location:        item.Location,
	}

	for _, a := range item.Attendees {
		if a.Resource {
			continue
		}
		ev.Attendees = append(ev.Attendees, domain.Attendee{Name: a.DisplayName, Email: a.Email})
		if c.ownerDomain != "" && !strings.HasSuffix(strings.ToLower(a.Email), "@"+c.ownerDomain) {
			ev.IsExternal = true
		}
	}

	if item.Location == "" || videoLinkPattern.MatchString(item.Location) {
		if videoLinkPattern.MatchString(item.Description) || videoLinkPattern.MatchString(item.Location) || item.HangoutLink != "" {
			ev.HasVideoLink = true
		}
	}

	return ev, true
}

func classify(colorID string) domain.EventCategory {
	if cat, ok := colorCategories[colorID]; ok {
		return cat
	}
	return domain.CategoryMeeting
}

func eventTime(dt *gcal.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t, err == nil
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", dt.Date, kst)
		return t, err == nil
	}
	return time.Time{}, false
}

// freeSlots subtracts busy intervals from the fixed working window and keeps
// gaps of at least half an hour.
func freeSlots(dayStart time.Time, busy []domain.TimeSlot) []domain.TimeSlot {
	windowStart := dayStart.Add(time.Duration(workdayStartHour) * time.Hour)
	windowEnd := dayStart.Add(time.Duration(workdayEndHour) * time.Hour)

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	var free []domain.TimeSlot
	cursor := windowStart
	for _, b := range busy {
		if b.End.Before(windowStart) || b.Start.After(windowEnd) {
			continue
		}
		if b.Start.After(cursor) {
			gap := domain.TimeSlot{Start: cursor, End: minTime(b.Start, windowEnd)}
			if gap.End.Sub(gap.Start) >= minFreeSlot {
				free = append(free, gap)
			}
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if windowEnd.Sub(cursor) >= minFreeSlot {
		free = append(free, domain.TimeSlot{Start: cursor, End: windowEnd})
	}
	return free
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
