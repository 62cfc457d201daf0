package calendar_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/mocks"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/pkg/recurrence"
)

func sessionsDto(startDate time.Time) dtos.CreateSessionsDto {
	//nolint:exhaustruct //other fields are optional
	return dtos.CreateSessionsDto{
		Frequency:       string(recurrence.Weekly),
		Interval:        1,
		DaysOfWeek:      []int{1, 3, 5},
		EndType:         dtos.EndCount,
		EndCount:        6,
		StartDate:       startDate.Format(time.DateOnly),
		TimeOfDay:       "17:30",
		DurationMinutes: 45,
		Capacity:        8,
	}
}

func listClassSessions(t *testing.T, class *models.Class) []models.Session {
	t.Helper()

	sessions, err := testApp.Services.Sessions.ListSessions(
		context.Background(),
		time.Now().AddDate(-1, 0, 0),
		time.Now().AddDate(1, 0, 0),
		&class.ID,
	)
	require.Nil(t, err)

	return sessions
}

func TestPreviewSessionsHandler(t *testing.T) {
	class := createClass(t, "Guppies")

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes/%s/preview", testApp.GetName(), class.ID),
	)

	tReq.SetContentType(test.FormContentType)
	tReq.SetData(sessionsDto(time.Now().AddDate(0, 0, 1)))
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
	assert.Len(t, listClassSessions(t, class), 0)
}

func TestCreateSessionsHandler(t *testing.T) {
	class := createClass(t, "Stingrays")

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes/%s/sessions", testApp.GetName(), class.ID),
	)

	tReq.SetFollowRedirect(false)
	tReq.SetContentType(test.FormContentType)
	tReq.SetData(sessionsDto(time.Now().AddDate(0, 0, 1)))
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)

	sessions := listClassSessions(t, class)
	require.Len(t, sessions, 6)
	for _, session := range sessions {
		assert.Equal(t, sessions[0].SeriesID, session.SeriesID)
		assert.Equal(t, models.Scheduled, session.Status)
		assert.Equal(t, 17, session.StartTime.UTC().Hour())
	}
}

func TestCreateSessionsHandlerInvalidRule(t *testing.T) {
	class := createClass(t, "Jellyfish")

	dto := sessionsDto(time.Now().AddDate(0, 0, 1))
	dto.Frequency = string(recurrence.CustomWeekdays)
	dto.DaysOfWeek = nil

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes/%s/sessions", testApp.GetName(), class.ID),
	)

	tReq.SetFollowRedirect(false)
	tReq.SetContentType(test.FormContentType)
	tReq.SetData(dto)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnprocessableEntity, rs.StatusCode)
	assert.Len(t, listClassSessions(t, class), 0)
}

func TestCreateSessionsHandlerCapExceeded(t *testing.T) {
	class := createClass(t, "Narwhals")

	dto := sessionsDto(time.Now().AddDate(0, 0, 1))
	dto.Frequency = string(recurrence.Daily)
	dto.DaysOfWeek = nil
	dto.EndCount = 5000

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes/%s/sessions", testApp.GetName(), class.ID),
	)

	tReq.SetFollowRedirect(false)
	tReq.SetContentType(test.FormContentType)
	tReq.SetData(dto)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnprocessableEntity, rs.StatusCode)
	assert.Len(t, listClassSessions(t, class), 0)
}

func TestCancelSeriesHandler(t *testing.T) {
	class := createClass(t, "Manatees")

	dto := sessionsDto(time.Now().AddDate(0, 0, 1))
	series, err := testApp.Services.Sessions.ScheduleSeries(
		context.Background(),
		*class,
		userID,
		&dto,
	)
	require.Nil(t, err)

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/series/%s/cancel", testApp.GetName(), series.ID),
	)

	tReq.SetFollowRedirect(false)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)

	for _, session := range listClassSessions(t, class) {
		assert.Equal(t, models.Cancelled, session.Status)
	}
}

func TestCreateSessionsHandlerPartialInsert(t *testing.T) {
	class := createClass(t, "Seahorses")

	tests := map[string]struct {
		failDelete bool
		message    string
	}{
		"rolled back": {
			failDelete: false,
			message:    "stored 2 of 6 sessions, rolled back: true",
		},
		"not rolled back": {
			failDelete: true,
			message:    "stored 2 of 6 sessions, rolled back: false",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := mocks.NewMockSessionStore()
			store.FailOnInsert = 3
			store.FailDelete = tt.failDelete

			app := newAppWithSessionStore(store)

			tReq := test.CreateRequestTester(
				getAppRoutes(app),
				http.MethodPost,
				fmt.Sprintf("/%s/api/classes/%s/sessions", app.GetName(), class.ID),
			)

			tReq.SetFollowRedirect(false)
			tReq.SetContentType(test.FormContentType)
			tReq.SetData(sessionsDto(time.Now().AddDate(0, 0, 1)))
			tReq.AddCookie(&accessToken)

			rs := tReq.Do(t)
			assert.Equal(t, http.StatusConflict, rs.StatusCode)

			body, err := io.ReadAll(rs.Body)
			require.Nil(t, err)
			assert.Contains(t, string(body), tt.message)

			if tt.failDelete {
				assert.Equal(t, 2, store.Len())
			} else {
				assert.Equal(t, 0, store.Len())
			}
		})
	}
}

func TestSessionHandler(t *testing.T) {
	class := createClass(t, "Otters")

	dto := sessionsDto(time.Now().AddDate(0, 0, 1))
	dto.Notes = "bring flippers"
	series, err := testApp.Services.Sessions.ScheduleSeries(
		context.Background(),
		*class,
		userID,
		&dto,
	)
	require.Nil(t, err)

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/sessions/%s", testApp.GetName(), series.Sessions[0].ID),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.Nil(t, err)
	assert.Contains(t, string(body), "Otters")
	assert.Contains(t, string(body), "bring flippers")
	assert.Contains(t, string(body), series.ID.String())
}

func TestSessionHandlerNotFound(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/sessions/%s", testApp.GetName(), uuid.New()),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusNotFound, rs.StatusCode)
}
