package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/pkg/recurrence"
)

// SessionStore persists sessions one row at a time.
type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	ListInRange(
		ctx context.Context,
		from time.Time,
		to time.Time,
		classID *uuid.UUID,
	) ([]models.Session, error)
	CancelSeries(ctx context.Context, seriesID uuid.UUID) (int64, error)
	CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
}

// BatchSessionStore can store a whole series as one unit of work.
type BatchSessionStore interface {
	SessionStore
	CreateBatch(ctx context.Context, series models.Series) error
}

// PartialInsertError reports a series that could only be stored in part.
// RolledBack is false when removing the stored part failed as well, in which
// case Inserted sessions of the series remain.
type PartialInsertError struct {
	SeriesID   uuid.UUID
	Inserted   int
	Total      int
	RolledBack bool
	Err        error
}

func (err *PartialInsertError) Error() string {
	state := "rolled back"
	if !err.RolledBack {
		state = "not rolled back"
	}

	return fmt.Sprintf(
		"stored %d of %d sessions of series %s (%s): %v",
		err.Inserted,
		err.Total,
		err.SeriesID,
		state,
		err.Err,
	)
}

func (err *PartialInsertError) Unwrap() error {
	return err.Err
}

type SessionService struct {
	logger   *slog.Logger
	sessions SessionStore
	location *time.Location
	hardCap  int
}

func NewSessionService(
	logger *slog.Logger,
	sessions SessionStore,
	location *time.Location,
	hardCap int,
) *SessionService {
	if location == nil {
		location = time.UTC
	}

	return &SessionService{
		logger:   logger,
		sessions: sessions,
		location: location,
		hardCap:  hardCap,
	}
}

func (service *SessionService) Location() *time.Location {
	return service.location
}

// Preview expands the form into the series it would create without storing
// anything.
func (service *SessionService) Preview(
	class models.Class,
	createdBy string,
	dto *dtos.CreateSessionsDto,
) (*models.Series, error) {
	rule, err := dto.Rule()
	if err != nil {
		return nil, err
	}

	anchor, err := dto.Anchor(service.location)
	if err != nil {
		return nil, err
	}

	occurrences, err := recurrence.Expand(rule, anchor, service.hardCap)
	if err != nil {
		return nil, err
	}

	rrule, err := rule.RRule(anchor)
	if err != nil {
		return nil, err
	}

	series := models.Series{
		ID:        uuid.New(),
		ClassID:   class.ID,
		RRule:     rrule,
		Sessions:  make([]models.Session, 0, len(occurrences)),
		CreatedBy: createdBy,
	}

	for _, occurrence := range occurrences {
		//nolint:exhaustruct //CreatedAt is set by the database
		series.Sessions = append(series.Sessions, models.Session{
			ID:              uuid.New(),
			ClassID:         class.ID,
			SeriesID:        series.ID,
			StartTime:       occurrence.Start,
			AllDay:          occurrence.AllDay,
			DurationMinutes: dto.DurationMinutes,
			Capacity:        dto.Capacity,
			Status:          models.Scheduled,
			Notes:           dto.Notes,
		})
	}

	return &series, nil
}

// ScheduleSeries expands the form and stores every resulting session, or
// none of them.
func (service *SessionService) ScheduleSeries(
	ctx context.Context,
	class models.Class,
	createdBy string,
	dto *dtos.CreateSessionsDto,
) (*models.Series, error) {
	series, err := service.Preview(class, createdBy, dto)
	if err != nil {
		return nil, err
	}

	if store, ok := service.sessions.(BatchSessionStore); ok {
		err = store.CreateBatch(ctx, *series)
		if err != nil {
			return nil, fmt.Errorf("storing series %s: %w", series.ID, err)
		}
		return series, nil
	}

	err = service.createSequential(ctx, *series)
	if err != nil {
		return nil, err
	}

	return series, nil
}

func (service *SessionService) createSequential(
	ctx context.Context,
	series models.Series,
) error {
	inserted := make([]uuid.UUID, 0, len(series.Sessions))

	for _, session := range series.Sessions {
		err := service.sessions.Create(ctx, session)
		if err == nil {
			inserted = append(inserted, session.ID)
			continue
		}

		partialErr := &PartialInsertError{
			SeriesID:   series.ID,
			Inserted:   len(inserted),
			Total:      len(series.Sessions),
			RolledBack: true,
			Err:        err,
		}

		if len(inserted) == 0 {
			return partialErr
		}

		// compensation must run even when ctx is what failed the insert
		deleteErr := service.sessions.DeleteByIDs(context.WithoutCancel(ctx), inserted)
		if deleteErr != nil {
			partialErr.RolledBack = false
			service.logger.Error(
				"failed to remove partially stored series",
				slog.String("seriesId", series.ID.String()),
				slog.Int("inserted", len(inserted)),
				logging.ErrAttr(deleteErr),
			)
		}

		return partialErr
	}

	return nil
}

func (service *SessionService) ListSessions(
	ctx context.Context,
	from time.Time,
	to time.Time,
	classID *uuid.UUID,
) ([]models.Session, error) {
	return service.sessions.ListInRange(ctx, from, to, classID)
}

func (service *SessionService) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*models.Session, error) {
	return service.sessions.GetByID(ctx, id)
}

func (service *SessionService) ListUpcoming(
	ctx context.Context,
	now time.Time,
	days int,
) ([]models.Session, error) {
	return service.sessions.ListInRange(ctx, now, now.AddDate(0, 0, days), nil)
}

func (service *SessionService) CancelSeries(
	ctx context.Context,
	seriesID uuid.UUID,
) (int64, error) {
	return service.sessions.CancelSeries(ctx, seriesID)
}

func (service *SessionService) CompleteEnded(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	return service.sessions.CompleteEndedBefore(ctx, now)
}
