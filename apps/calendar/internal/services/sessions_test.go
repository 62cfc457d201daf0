package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/mocks"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/internal/services"
	"swimschool.app/apps/calendar/pkg/recurrence"
)

func testClass() models.Class {
	return models.Class{
		ID:                     uuid.New(),
		Name:                   "Dolphins",
		Level:                  "beginner",
		InstructorID:           nil,
		DefaultDurationMinutes: 45,
		DefaultCapacity:        8,
	}
}

func weeklyDto() *dtos.CreateSessionsDto {
	//nolint:exhaustruct //other fields are optional
	return &dtos.CreateSessionsDto{
		Frequency:       string(recurrence.Weekly),
		Interval:        1,
		DaysOfWeek:      []int{1, 3, 5},
		EndType:         dtos.EndCount,
		EndCount:        6,
		StartDate:       "2024-01-01",
		TimeOfDay:       "17:30",
		DurationMinutes: 45,
		Capacity:        8,
		Notes:           "bring goggles",
	}
}

func TestPreview(t *testing.T) {
	store := mocks.NewMockSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	class := testClass()
	series, err := service.Preview(class, "admin", weeklyDto())
	require.Nil(t, err)

	assert.Equal(t, class.ID, series.ClassID)
	assert.Contains(t, series.RRule, "FREQ=WEEKLY")
	require.Len(t, series.Sessions, 6)
	assert.Equal(
		t,
		time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC),
		series.Sessions[0].StartTime,
	)
	assert.Equal(
		t,
		time.Date(2024, 1, 12, 17, 30, 0, 0, time.UTC),
		series.Sessions[5].StartTime,
	)

	for _, session := range series.Sessions {
		assert.Equal(t, series.ID, session.SeriesID)
		assert.Equal(t, models.Scheduled, session.Status)
		assert.Equal(t, 45, session.DurationMinutes)
		assert.Equal(t, 8, session.Capacity)
		assert.Equal(t, "bring goggles", session.Notes)
	}

	assert.Equal(t, 0, store.Len())
}

func TestPreviewRRule(t *testing.T) {
	service := services.NewSessionService(
		logging.NewNopLogger(),
		mocks.NewMockSessionStore(),
		time.UTC,
		1000,
	)

	dto := weeklyDto()
	dto.Frequency = ""
	dto.RRule = "RRULE:FREQ=MONTHLY;COUNT=5"
	dto.StartDate = "2024-01-31"

	series, err := service.Preview(testClass(), "admin", dto)
	require.Nil(t, err)
	require.Len(t, series.Sessions, 5)
	assert.Equal(t, 29, series.Sessions[1].StartTime.Day())
	assert.Equal(t, 31, series.Sessions[4].StartTime.Day())
	assert.Contains(t, series.RRule, "BYMONTHDAY=31,-1")
	assert.Contains(t, series.RRule, "BYSETPOS=1")
}

func TestPreviewErrors(t *testing.T) {
	service := services.NewSessionService(
		logging.NewNopLogger(),
		mocks.NewMockSessionStore(),
		time.UTC,
		10,
	)

	dto := weeklyDto()
	dto.EndCount = 0
	_, err := service.Preview(testClass(), "admin", dto)
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)

	dto = weeklyDto()
	dto.EndCount = 20
	_, err = service.Preview(testClass(), "admin", dto)
	assert.ErrorIs(t, err, recurrence.ErrCapExceeded)

	fields, ok := recurrence.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "end")

	dto = weeklyDto()
	dto.StartDate = "01/01/2024"
	_, err = service.Preview(testClass(), "admin", dto)
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)
}

func TestScheduleSeriesBatch(t *testing.T) {
	store := mocks.NewMockBatchSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	series, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)
	require.Nil(t, err)

	assert.Equal(t, 1, store.Batches)
	assert.Equal(t, len(series.Sessions), store.Len())
}

func TestScheduleSeriesBatchFailure(t *testing.T) {
	store := mocks.NewMockBatchSessionStore()
	store.FailBatch = true
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	_, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)
	assert.ErrorIs(t, err, mocks.ErrMockInsert)
	assert.Equal(t, 0, store.Len())
}

func TestScheduleSeriesSequential(t *testing.T) {
	store := mocks.NewMockSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	series, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)
	require.Nil(t, err)
	assert.Equal(t, len(series.Sessions), store.Len())
}

func TestScheduleSeriesCompensates(t *testing.T) {
	store := mocks.NewMockSessionStore()
	store.FailOnInsert = 4
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	_, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)

	var partialErr *services.PartialInsertError
	require.True(t, errors.As(err, &partialErr))
	assert.Equal(t, 3, partialErr.Inserted)
	assert.Equal(t, 6, partialErr.Total)
	assert.True(t, partialErr.RolledBack)
	assert.ErrorIs(t, err, mocks.ErrMockInsert)
	assert.Equal(t, 0, store.Len())
}

func TestScheduleSeriesFirstInsertFails(t *testing.T) {
	store := mocks.NewMockSessionStore()
	store.FailOnInsert = 1
	store.FailDelete = true
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	_, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)

	var partialErr *services.PartialInsertError
	require.True(t, errors.As(err, &partialErr))
	assert.Equal(t, 0, partialErr.Inserted)
	assert.True(t, partialErr.RolledBack)
}

func TestScheduleSeriesRollbackFails(t *testing.T) {
	store := mocks.NewMockSessionStore()
	store.FailOnInsert = 2
	store.FailDelete = true
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	_, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)

	var partialErr *services.PartialInsertError
	require.True(t, errors.As(err, &partialErr))
	assert.Equal(t, 1, partialErr.Inserted)
	assert.False(t, partialErr.RolledBack)
	assert.Contains(t, partialErr.Error(), "not rolled back")
	assert.Equal(t, 1, store.Len())
}

func TestScheduleSeriesInvalidStoresNothing(t *testing.T) {
	store := mocks.NewMockSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	dto := weeklyDto()
	dto.Frequency = string(recurrence.CustomWeekdays)
	dto.DaysOfWeek = nil

	_, err := service.ScheduleSeries(context.Background(), testClass(), "admin", dto)
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)
	assert.Equal(t, 0, store.Len())
}

func TestCancelAndCompleteSeries(t *testing.T) {
	store := mocks.NewMockSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	series, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)
	require.Nil(t, err)

	completed, err := service.CompleteEnded(
		context.Background(),
		time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
	)
	require.Nil(t, err)
	assert.Equal(t, int64(3), completed)

	cancelled, err := service.CancelSeries(context.Background(), series.ID)
	require.Nil(t, err)
	assert.Equal(t, int64(3), cancelled)

	_, err = service.CancelSeries(context.Background(), series.ID)
	assert.NotNil(t, err)

	sessions, err := service.ListSessions(
		context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		&series.ClassID,
	)
	require.Nil(t, err)
	require.Len(t, sessions, 6)
	assert.Equal(t, models.Completed, sessions[0].Status)
	assert.Equal(t, models.Cancelled, sessions[5].Status)
}

func TestGetSession(t *testing.T) {
	store := mocks.NewMockSessionStore()
	service := services.NewSessionService(logging.NewNopLogger(), store, time.UTC, 1000)

	series, err := service.ScheduleSeries(
		context.Background(),
		testClass(),
		"admin",
		weeklyDto(),
	)
	require.Nil(t, err)

	session, err := service.GetSession(context.Background(), series.Sessions[2].ID)
	require.Nil(t, err)
	assert.Equal(t, series.Sessions[2].StartTime, session.StartTime)
	assert.Equal(t, "bring goggles", session.Notes)

	_, err = service.GetSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, database.ErrResourceNotFound)
}
