package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ToggleCompletionAndGetMarks(t *testing.T) {
	f := setup(t, profile.PermissionDefault)
	handler := NewHandler(f.service, &utils.MockClock{FixedNow: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)})

	xp := 30
	body, _ := json.Marshal(CompletionRequest{ItemId: "item-1", XP: &xp})
	req := httptest.NewRequest(http.MethodPut, "/api/tracker/completion?date=2024-03-10", bytes.NewReader(body)).WithContext(f.ctx)
	rr := httptest.NewRecorder()
	handler.ToggleCompletion(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result ToggleResultDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, result.IsDone)
	assert.Equal(t, 30, result.XPAwarded)

	req = httptest.NewRequest(http.MethodGet, "/api/tracker", nil).WithContext(f.ctx)
	rr = httptest.NewRecorder()
	handler.GetMarks(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"done":["item-1"],"reminders":[]}`, rr.Body.String())
}

func TestHandler_ToggleReminderReportsPermission(t *testing.T) {
	f := setup(t, profile.PermissionDefault)
	handler := NewHandler(f.service, utils.SystemClock{})

	body, _ := json.Marshal(ReminderRequest{ItemId: "item-1"})
	req := httptest.NewRequest(http.MethodPut, "/api/tracker/reminder?date=2024-03-10", bytes.NewReader(body)).WithContext(f.ctx)
	rr := httptest.NewRecorder()
	handler.ToggleReminder(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result ToggleResultDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, result.PermissionRequired)
	assert.False(t, result.HasReminder)
}

func TestHandler_RejectsMissingItem(t *testing.T) {
	f := setup(t, profile.PermissionDefault)
	handler := NewHandler(f.service, utils.SystemClock{})

	req := httptest.NewRequest(http.MethodPut, "/api/tracker/completion", bytes.NewReader([]byte(`{"xp":5}`))).WithContext(f.ctx)
	rr := httptest.NewRecorder()
	handler.ToggleCompletion(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_ToggleCompletionDefaultsXP(t *testing.T) {
	f := setup(t, profile.PermissionDefault)
	handler := NewHandler(f.service, utils.SystemClock{})

	req := httptest.NewRequest(http.MethodPut, "/api/tracker/completion?date=2024-03-10",
		bytes.NewReader([]byte(`{"itemId":"item-1"}`))).WithContext(f.ctx)
	rr := httptest.NewRecorder()
	handler.ToggleCompletion(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result ToggleResultDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, result.IsDone)
	assert.Equal(t, DefaultCompletionXP, result.XPAwarded)

	req = httptest.NewRequest(http.MethodPut, "/api/tracker/completion?date=2024-03-10",
		bytes.NewReader([]byte(`{"itemId":"item-2","xp":0}`))).WithContext(f.ctx)
	rr = httptest.NewRecorder()
	handler.ToggleCompletion(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.Equal(t, 0, result.XPAwarded)
}

func TestHandler_RejectsOverlongItemId(t *testing.T) {
	f := setup(t, profile.PermissionGranted)
	handler := NewHandler(f.service, utils.SystemClock{})
	body, _ := json.Marshal(ReminderRequest{ItemId: strings.Repeat("x", MaxItemIdLength+1)})

	rr := httptest.NewRecorder()
	handler.ToggleReminder(rr, httptest.NewRequest(http.MethodPut, "/api/tracker/reminder", bytes.NewReader(body)).WithContext(f.ctx))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	handler.ToggleCompletion(rr, httptest.NewRequest(http.MethodPut, "/api/tracker/completion", bytes.NewReader(body)).WithContext(f.ctx))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	marks, err := f.service.GetMarks(f.ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, marks.Done)
	assert.Empty(t, marks.Reminders)
}
