package plan

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// EventDuration is the fixed length of every exported schedule item.
const EventDuration = 60 * time.Minute

var itemTimePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})(?:\s*([AaPp])\.?[Mm]\b)?`)

// ItemStart resolves the item's wall-clock time on date in loc. Items whose time does not
// contain an H:MM or HH:MM clock reading report false. A trailing AM or PM switches to the
// 12-hour reading.
func ItemStart(item ScheduleItem, date time.Time, loc *time.Location) (time.Time, bool) {
	m := itemTimePattern.FindStringSubmatch(item.Time)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if meridiem := strings.ToLower(m[3]); meridiem != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		hour %= 12
		if meridiem == "p" {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), true
}

// RenderICS serializes the plan for date as an iCalendar document with one event per
// timed item. Times are written in UTC.
func RenderICS(p DailyPlan, date time.Time, loc *time.Location, now time.Time) string {
	cal := ics.NewCalendarFor("GeoLevelUp")
	cal.SetMethod(ics.MethodPublish)
	for _, item := range p.Schedule {
		start, ok := ItemStart(item, date, loc)
		if !ok {
			continue
		}
		event := cal.AddEvent(item.Id)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(EventDuration))
		event.SetSummary(item.Activity)
		event.SetDescription(item.Description)
	}
	return cal.Serialize()
}
