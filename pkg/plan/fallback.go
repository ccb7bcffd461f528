package plan

import (
	"fmt"
	"time"
)

var fallbackSchedule = []ScheduleItem{
	{Time: "04:00", Activity: "Wake Up & Hydrate", Category: CategoryHealth, Description: "Early rise, water, no phone for 15 minutes"},
	{Time: "04:30", Activity: "Deep Work: Geomatics", Category: CategoryLearning, Description: "Review GIS lecture notes and practice spatial analysis"},
	{Time: "06:30", Activity: "Gym", Category: CategoryHealth, Description: "Strength training session"},
	{Time: "08:00", Activity: "Breakfast & Market Check", Category: CategoryHobby, Description: "Scan pre-market movers and note trade ideas"},
	{Time: "09:00", Activity: "Business Operations", Category: CategoryBusiness, Description: "Handle bookings, drivers and customer messages"},
	{Time: "12:00", Activity: "Lunch", Category: CategoryRest, Description: "Proper meal away from screens"},
	{Time: "13:00", Activity: "Programming Practice", Category: CategoryHobby, Description: "Python scripting for GIS automation"},
	{Time: "15:00", Activity: "Cybersecurity Lab", Category: CategoryHobby, Description: "Work through one hands-on exercise"},
	{Time: "17:00", Activity: "Business Growth", Category: CategoryBusiness, Description: "Marketing, partnerships and planning"},
	{Time: "19:00", Activity: "Dinner & Family", Category: CategoryRest, Description: "Recharge"},
	{Time: "20:00", Activity: "Review & Plan Tomorrow", Category: CategoryLearning, Description: "Journal wins and set top 3 priorities"},
	{Time: "21:00", Activity: "Sleep", Category: CategoryRest, Description: "Lights out for the 04:00 start"},
}

// FallbackPlan is the static plan served for date when generation fails. It is never
// stored, so its item ids derive from the date and position to stay the same on every call.
func FallbackPlan(date time.Time, now time.Time) DailyPlan {
	p := DailyPlan{
		FocusOfTheDay: "Consistency beats intensity",
		Tips: []string{
			"Protect the early morning block for deep work.",
			"Batch business tasks to avoid context switching.",
		},
		Schedule: append([]ScheduleItem(nil), fallbackSchedule...),
	}
	p = finalize(p, date, now)
	for i := range p.Schedule {
		p.Schedule[i].Id = fallbackItemId(p.Date, i)
	}
	p.Fallback = true
	return p
}

func fallbackItemId(date string, index int) string {
	return fmt.Sprintf("fallback-%s-%d", date, index)
}
