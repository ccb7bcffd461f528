package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/config"
	"github.com/frankotendo/geolevelup/pkg/plan"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("google calendar export is not configured")

// itemIdProperty tags exported events with the schedule item they came from.
const itemIdProperty = "geolevelupItemId"

type ExportResult struct {
	CalendarId string
	EventIds   []string
}

type Exporter interface {
	ExportPlan(ctx context.Context, p plan.DailyPlan, date time.Time, loc *time.Location) (ExportResult, error)
}

// GoogleExporter inserts plan items into one Google calendar using a long-lived
// refresh token.
type GoogleExporter struct {
	calendarId string
	newService func(ctx context.Context) (*gcal.Service, error)
}

func NewExporter(cfg config.Google) *GoogleExporter {
	e := &GoogleExporter{calendarId: cfg.CalendarId}
	if cfg.ClientId == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return e
	}
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	e.newService = func(ctx context.Context) (*gcal.Service, error) {
		return gcal.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	}
	return e
}

func (e *GoogleExporter) Configured() bool {
	return e.newService != nil
}

func (e *GoogleExporter) ExportPlan(ctx context.Context, p plan.DailyPlan, date time.Time, loc *time.Location) (ExportResult, error) {
	if !e.Configured() {
		return ExportResult{}, ErrNotConfigured
	}
	service, err := e.newService(ctx)
	if err != nil {
		err := fmt.Errorf("unable to create Calendar client: %w", err)
		log.Error(err)
		return ExportResult{}, err
	}

	result := ExportResult{CalendarId: e.calendarId, EventIds: []string{}}
	for _, item := range p.Schedule {
		start, ok := plan.ItemStart(item, date, loc)
		if !ok {
			continue
		}
		log.Debugf("Adding item %s (%s %s) to calendar %s", item.Id, item.Time, item.Activity, e.calendarId)
		created, err := service.Events.Insert(e.calendarId, &gcal.Event{
			Summary:     item.Activity,
			Description: item.Description,
			Start: &gcal.EventDateTime{
				DateTime: start.Format(time.RFC3339),
				TimeZone: loc.String(),
			},
			End: &gcal.EventDateTime{
				DateTime: start.Add(plan.EventDuration).Format(time.RFC3339),
				TimeZone: loc.String(),
			},
			ExtendedProperties: &gcal.EventExtendedProperties{
				Private: map[string]string{itemIdProperty: item.Id},
			},
		}).Context(ctx).Do()
		if err != nil {
			err := fmt.Errorf("unable to insert event in Google Calendar: %w", err)
			log.Error(err)
			return result, err
		}
		result.EventIds = append(result.EventIds, created.Id)
	}
	return result, nil
}
