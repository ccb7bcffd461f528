package plan

import (
	"strings"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/google/uuid"
)

type Category string

const (
	CategoryLearning Category = "learning"
	CategoryBusiness Category = "business"
	CategoryHealth   Category = "health"
	CategoryHobby    Category = "hobby"
	CategoryRest     Category = "rest"
	CategoryFixed    Category = "fixed"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryLearning, CategoryBusiness, CategoryHealth, CategoryHobby, CategoryRest, CategoryFixed:
		return true
	}
	return false
}

// ScheduleItem is one timed activity. Id is assigned when the plan is created and is
// what completion and reminder marks refer to.
type ScheduleItem struct {
	Id          string   `json:"id"`
	Time        string   `json:"time"`
	Activity    string   `json:"activity"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

type DailyPlan struct {
	Date          string         `json:"date"`
	DayOfWeek     string         `json:"dayOfWeek"`
	FocusOfTheDay string         `json:"focusOfTheDay"`
	Tips          []string       `json:"tips"`
	Schedule      []ScheduleItem `json:"schedule"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	// Fallback marks the static plan served when generation failed. Such plans are never stored.
	Fallback bool `json:"fallback,omitempty"`
}

// ItemIds lists the ids of the schedule in order.
func (p DailyPlan) ItemIds() []string {
	ids := make([]string, 0, len(p.Schedule))
	for _, item := range p.Schedule {
		ids = append(ids, item.Id)
	}
	return ids
}

// FindItem returns the schedule item with the given id.
func (p DailyPlan) FindItem(id string) (ScheduleItem, bool) {
	for _, item := range p.Schedule {
		if item.Id == id {
			return item, true
		}
	}
	return ScheduleItem{}, false
}

// finalize stamps the requested day onto a generated plan, gives every item a fresh id
// and replaces unknown categories.
func finalize(p DailyPlan, date time.Time, now time.Time) DailyPlan {
	p.Date = date.Format(utils.DateLayout)
	p.DayOfWeek = date.Weekday().String()
	p.GeneratedAt = now
	if p.Tips == nil {
		p.Tips = []string{}
	}
	schedule := make([]ScheduleItem, 0, len(p.Schedule))
	for _, item := range p.Schedule {
		item.Id = uuid.NewString()
		item.Category = Category(strings.ToLower(strings.TrimSpace(string(item.Category))))
		if !item.Category.IsValid() {
			item.Category = CategoryRest
		}
		schedule = append(schedule, item)
	}
	p.Schedule = schedule
	return p
}
