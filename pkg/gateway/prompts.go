package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/frankotendo/geolevelup/pkg/profile"
)

const temperature = 0.7

func systemInstruction(p profile.Profile) string {
	return fmt.Sprintf(`You are an elite productivity and career strategist for a high-potential %s student.
The user is ambitious, running a business ('%s'), studying %s, and learning %s.
Your goal is to maximize their "Level Up" speed by finding synergies.`,
		p.Major, p.BusinessName, p.Major, strings.Join(p.Hobbies, ", "))
}

func dailyPlanPrompt(p profile.Profile, date time.Time) string {
	sports := strings.Join(p.Sports, "/")
	if p.WeekendSports {
		sports += " (also on weekends)"
	}
	return fmt.Sprintf(`Create a strict JSON daily schedule for %s.

**CONSTRAINTS & REQUIREMENTS:**
1. **WAKE UP TIME**: 04:00 AM. (The schedule MUST start here).
2. **FIXED SCHOOL SCHEDULE**:
   The user has the following school classes. You MUST schedule these exactly as written and mark category as 'fixed'. Do not schedule other tasks during these times.
   """
   %s
   """
3. **PRIORITIES**:
   - '%s' (Business) - Daily.
   - %s (Major) - Daily.
   - %s (Hobbies) - Daily.
   - %s - Daily/Weekly.
4. **GOALS**: %s

Structure the response EXACTLY like this JSON example:
{
  "date": "2024-01-01",
  "dayOfWeek": "Monday",
  "focusOfTheDay": "Theme of the day",
  "tips": ["Tip 1", "Tip 2"],
  "schedule": [
    { "time": "04:00", "activity": "Wake Up", "category": "health", "description": "Early rise" }
  ]
}
Allowed categories: learning, business, health, hobby, rest, fixed.
IMPORTANT: Return ONLY valid JSON. No Markdown. No introduction.`,
		date.Weekday(), p.SchoolSchedule, p.BusinessName, p.Major,
		strings.Join(p.Hobbies, ", "), sports, strings.Join(p.Goals, "; "))
}

func strategyPrompt(p profile.Profile) string {
	return fmt.Sprintf(`Create 3 strategic paths for a %s student interested in %s, and Business (%s).
Focus on synergies (e.g. GIS + Trading).

Structure the response EXACTLY as a JSON Array like this:
[
  {
    "title": "Strategy Name",
    "description": "Explanation",
    "synergies": ["Skill A + Skill B"],
    "actionItems": ["Do this", "Do that"]
  }
]
IMPORTANT: Return ONLY valid JSON Array. No Markdown.`,
		p.Major, strings.Join(p.Hobbies, ", "), p.BusinessName)
}
