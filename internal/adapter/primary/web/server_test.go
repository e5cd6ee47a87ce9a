package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-manager/internal/adapter/secondary/reminder"
	"checkin-manager/internal/adapter/secondary/repository"
	"checkin-manager/internal/domain"
	"checkin-manager/internal/usecase"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	repo, err := repository.NewFileRepository(afero.NewMemMapFs(), "/state.json")
	require.NoError(t, err)
	uc, err := usecase.NewCheckInUseCase(repo, reminder.NewNoopReminder(), usecase.Options{
		Clock:    fixedClock{t: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)},
		Location: time.UTC,
	})
	require.NoError(t, err)
	return NewServer(uc, "127.0.0.1:0", nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSettings(t *testing.T, rec *httptest.ResponseRecorder) settingsView {
	t.Helper()
	var v settingsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetSettingsDefaults(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeSettings(t, rec)
	assert.False(t, v.Enabled)
	assert.Equal(t, "daily", v.WeekdaySummary)
	assert.Len(t, v.Weekdays, 7)
	assert.Empty(t, v.Entries)
	assert.Nil(t, v.NextCheckIn)
}

func TestEntryLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/enabled", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSettings(t, rec).Enabled)

	rec = do(t, h, http.MethodPost, "/api/entries", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var first entryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, "13:00:00", first.Time)

	rec = do(t, h, http.MethodPost, "/api/entries", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/entries/"+first.ID, map[string]string{"time": "13:55"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/settings", nil)
	v := decodeSettings(t, rec)
	require.Len(t, v.Entries, 2)
	assert.True(t, v.Entries[0].TooClose)
	assert.True(t, v.Entries[1].TooClose)
	require.NotNil(t, v.NextCheckIn)
	assert.True(t, time.Date(2024, 3, 4, 13, 55, 0, 0, time.UTC).Equal(*v.NextCheckIn))

	rec = do(t, h, http.MethodPost, "/api/entries/"+first.ID+"/mark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSettings(t, rec).Entries[0].Marked)

	rec = do(t, h, http.MethodDelete, "/api/entries?marked=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/entries", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/entries?all=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())
}

func TestEntryErrors(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/entries/deadbeef", map[string]string{"time": "10:00"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/entries", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e entryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = do(t, h, http.MethodPut, "/api/entries/"+e.ID, map[string]string{"time": "25:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/entries/"+e.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 1; i < domain.MaxEntries; i++ {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/entries", nil).Code)
	}
	rec = do(t, h, http.MethodPost, "/api/entries", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "30")
}

func TestShiftAndUndo(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/entries", nil).Code)

	rec := do(t, h, http.MethodPost, "/api/shift/undo", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/shift", map[string]int{"hours": 1, "minutes": -15})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeSettings(t, rec)
	assert.Equal(t, "13:45:00", v.Entries[0].Time)
	assert.True(t, v.UndoAvailable)

	rec = do(t, h, http.MethodPost, "/api/shift/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeSettings(t, rec)
	assert.Equal(t, "13:00:00", v.Entries[0].Time)
	assert.False(t, v.UndoAvailable)

	rec = do(t, h, http.MethodPost, "/api/shift", map[string]int{"hours": 30})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeekdays(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/weekdays", map[string][]string{"days": {"Tue", "wednesday", "th"}})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeSettings(t, rec)
	assert.Equal(t, "Tue-Thu", v.WeekdaySummary)
	assert.Equal(t, []string{"Tue", "Wed", "Thu"}, v.Weekdays)

	rec = do(t, h, http.MethodPut, "/api/weekdays", map[string][]string{"days": {}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/weekdays", map[string][]string{"days": {"Funday"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/weekdays", map[string][]string{"days": {"Mon"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/weekdays/Mon/toggle", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/weekdays/Sun/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mon and Sun", decodeSettings(t, rec).WeekdaySummary)
}

func TestPauseAndResume(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "hour", "hour": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeSettings(t, rec)
	assert.True(t, v.PauseActive)
	assert.Equal(t, "PAUSED until: Mar 5, 7:00 am.", v.PauseMessage)

	rec = do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "days", "days": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decodeSettings(t, rec).ResumeAt)

	rec = do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "until", "until": "2024-03-06T09:30:00Z"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PAUSED until: Mar 6, 9:30 am.", decodeSettings(t, rec).PauseMessage)

	rec = do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "hour"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "weeks"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/pause", map[string]any{"mode": "days", "days": 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeSettings(t, rec)
	assert.False(t, v.PauseActive)
	assert.Empty(t, v.PauseMessage)
}

func TestNextAndCron(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"next":null}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/cron", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	do(t, h, http.MethodPut, "/api/enabled", map[string]bool{"enabled": true})
	do(t, h, http.MethodPost, "/api/entries", nil)

	rec = do(t, h, http.MethodGet, "/api/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024-03-04T13:00:00Z")

	rec = do(t, h, http.MethodGet, "/api/cron?command=notify", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "0 13 * * * notify\n")
}

func TestRootServesUI(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check-in Manager")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/settings", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
