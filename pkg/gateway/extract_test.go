package gateway

import (
	"testing"

	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Object(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain", `{"focusOfTheDay":"Ship it","schedule":[{"time":"04:00","activity":"Wake Up"}]}`},
		{"fenced", "```json\n{\"focusOfTheDay\":\"Ship it\",\"schedule\":[{\"time\":\"04:00\",\"activity\":\"Wake Up\"}]}\n```"},
		{"prose around", "Sure! Here is your plan:\n{\"focusOfTheDay\":\"Ship it\",\"schedule\":[{\"time\":\"04:00\",\"activity\":\"Wake Up\"}]}\nGood luck!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p plan.DailyPlan
			require.NoError(t, ExtractJSON(tt.text, &p))
			assert.Equal(t, "Ship it", p.FocusOfTheDay)
			require.Len(t, p.Schedule, 1)
			assert.Equal(t, "Wake Up", p.Schedule[0].Activity)
		})
	}
}

func TestExtractJSON_Array(t *testing.T) {
	text := "Here you go ```json\n[{\"title\":\"Spatial Finance\",\"synergies\":[\"GIS + Trading\"]}]\n```"

	var paths []strategy.Path
	require.NoError(t, ExtractJSON(text, &paths))

	require.Len(t, paths, 1)
	assert.Equal(t, "Spatial Finance", paths[0].Title)
	assert.Equal(t, []string{"GIS + Trading"}, paths[0].Synergies)
}

func TestExtractJSON_Failures(t *testing.T) {
	var v map[string]any

	assert.ErrorIs(t, ExtractJSON("no structure here", &v), ErrNoJSON)
	assert.Error(t, ExtractJSON(`{"broken": `, &v))
	assert.Error(t, ExtractJSON("", &v))
}
