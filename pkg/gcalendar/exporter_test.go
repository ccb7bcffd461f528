package gcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frankotendo/geolevelup/internal/config"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

var dailyPlan = plan.DailyPlan{
	Date: "2024-03-10",
	Schedule: []plan.ScheduleItem{
		{Id: "wake", Time: "04:00", Activity: "Wake Up", Description: "Early rise"},
		{Id: "flex", Time: "whenever", Activity: "Stretch"},
		{Id: "gym", Time: "06:30", Activity: "Gym", Description: "Strength"},
	},
}

func fakeCalendar(t *testing.T) (*GoogleExporter, *[]gcal.Event) {
	t.Helper()
	var inserted []gcal.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		var event gcal.Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		inserted = append(inserted, event)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"evt-%d"}`, len(inserted))
	}))
	t.Cleanup(server.Close)

	exporter := &GoogleExporter{
		calendarId: "primary",
		newService: func(ctx context.Context) (*gcal.Service, error) {
			return gcal.NewService(ctx, option.WithHTTPClient(server.Client()), option.WithEndpoint(server.URL+"/"))
		},
	}
	return exporter, &inserted
}

func TestGoogleExporter_ExportPlan(t *testing.T) {
	exporter, inserted := fakeCalendar(t)

	result, err := exporter.ExportPlan(context.Background(), dailyPlan, day, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1", "evt-2"}, result.EventIds)
	require.Len(t, *inserted, 2)
	first := (*inserted)[0]
	assert.Equal(t, "Wake Up", first.Summary)
	assert.Equal(t, "2024-03-10T04:00:00Z", first.Start.DateTime)
	assert.Equal(t, "2024-03-10T05:00:00Z", first.End.DateTime)
	assert.Equal(t, "wake", first.ExtendedProperties.Private[itemIdProperty])
}

func TestGoogleExporter_NotConfigured(t *testing.T) {
	exporter := NewExporter(config.Google{CalendarId: "primary"})

	assert.False(t, exporter.Configured())
	_, err := exporter.ExportPlan(context.Background(), dailyPlan, day, time.UTC)
	assert.ErrorIs(t, err, ErrNotConfigured)

	configured := NewExporter(config.Google{ClientId: "id", ClientSecret: "secret", RefreshToken: "token", CalendarId: "primary"})
	assert.True(t, configured.Configured())
}

type plansStub struct {
	plan  plan.DailyPlan
	found bool
}

func (p plansStub) StoredOrFallback(ctx context.Context, date time.Time) (plan.DailyPlan, error) {
	if !p.found {
		return plan.FallbackPlan(date, date), nil
	}
	return p.plan, nil
}

func TestHandler_ExportPlan(t *testing.T) {
	exporter, _ := fakeCalendar(t)
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)}
	ctx := profile.WithProfile(context.Background(), profile.Default())

	rr := httptest.NewRecorder()
	NewHandler(plansStub{plan: dailyPlan, found: true}, exporter, clock).
		ExportPlan(rr, httptest.NewRequest(http.MethodPost, "/api/plan/export/google", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"calendarId":"primary","exported":2,"eventIds":["evt-1","evt-2"]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	NewHandler(plansStub{}, exporter, clock).
		ExportPlan(rr, httptest.NewRequest(http.MethodPost, "/api/plan/export/google", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rr.Code)
	var fallback ExportResultDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&fallback))
	assert.Equal(t, 12, fallback.Exported)

	rr = httptest.NewRecorder()
	NewHandler(plansStub{plan: dailyPlan, found: true}, NewExporter(config.Google{}), clock).
		ExportPlan(rr, httptest.NewRequest(http.MethodPost, "/api/plan/export/google", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
