package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"swimschool.app/apps/calendar/internal/models"
)

type SessionRepository struct {
	db postgres.DB
}

const insertSessionQuery = `
	INSERT INTO calendar.sessions (id, class_id, series_id, start_time,
	all_day, duration_minutes, capacity, status, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const selectSessionColumns = `
	SELECT id, class_id, series_id, start_time, all_day,
	duration_minutes, capacity, status, notes, created_at
	FROM calendar.sessions
`

func sessionArgs(session models.Session) []any {
	return []any{
		session.ID,
		session.ClassID,
		session.SeriesID,
		session.StartTime,
		session.AllDay,
		session.DurationMinutes,
		session.Capacity,
		string(session.Status),
		session.Notes,
	}
}

func scanSession(row pgx.Row) (models.Session, error) {
	//nolint:exhaustruct //fields are scanned
	session := models.Session{}
	var status string

	err := row.Scan(
		&session.ID,
		&session.ClassID,
		&session.SeriesID,
		&session.StartTime,
		&session.AllDay,
		&session.DurationMinutes,
		&session.Capacity,
		&status,
		&session.Notes,
		&session.CreatedAt,
	)
	session.Status = models.SessionStatus(status)

	return session, err
}

// CreateBatch stores the series and all of its sessions. pgx runs a batch
// in a single implicit transaction, so either every row is written or none.
func (repo *SessionRepository) CreateBatch(
	ctx context.Context,
	series models.Series,
) error {
	query := `
		INSERT INTO calendar.series (id, class_id, rrule, created_by)
		VALUES ($1, $2, $3, $4)
	`

	//nolint:exhaustruct //fields are optional
	b := &pgx.Batch{}
	b.Queue(query, series.ID, series.ClassID, series.RRule, series.CreatedBy)
	for _, session := range series.Sessions {
		b.Queue(insertSessionQuery, sessionArgs(session)...)
	}

	err := repo.db.SendBatch(ctx, b).Close()
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	return nil
}

func (repo *SessionRepository) Create(
	ctx context.Context,
	session models.Session,
) error {
	_, err := repo.db.Exec(ctx, insertSessionQuery, sessionArgs(session)...)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	return nil
}

func (repo *SessionRepository) DeleteByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) error {
	query := `
		DELETE FROM calendar.sessions
		WHERE id = ANY($1)
	`

	_, err := repo.db.Exec(ctx, query, ids)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	return nil
}

func (repo *SessionRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Session, error) {
	query := selectSessionColumns + `
		WHERE id = $1
	`

	session, err := scanSession(repo.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, database.ErrResourceNotFound
	}
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &session, nil
}

// ListInRange returns the sessions starting in [from, to), optionally
// limited to one class.
func (repo *SessionRepository) ListInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
	classID *uuid.UUID,
) ([]models.Session, error) {
	query := selectSessionColumns + `
		WHERE start_time >= $1 AND start_time < $2
		AND ($3::uuid IS NULL OR class_id = $3)
		ORDER BY start_time ASC
	`

	rows, err := repo.db.Query(ctx, query, from, to, classID)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var session models.Session
		session, err = scanSession(rows)
		if err != nil {
			return nil, postgres.PgxErrorToHTTPError(err)
		}

		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return sessions, nil
}

// CancelSeries cancels the sessions of a series that have not happened yet.
func (repo *SessionRepository) CancelSeries(
	ctx context.Context,
	seriesID uuid.UUID,
) (int64, error) {
	query := `
		UPDATE calendar.sessions
		SET status = $2
		WHERE series_id = $1 AND status = $3
	`

	result, err := repo.db.Exec(
		ctx,
		query,
		seriesID,
		string(models.Cancelled),
		string(models.Scheduled),
	)
	if err != nil {
		return 0, postgres.PgxErrorToHTTPError(err)
	}

	if result.RowsAffected() == 0 {
		return 0, database.ErrResourceNotFound
	}

	return result.RowsAffected(), nil
}

// CompleteEndedBefore marks scheduled sessions that ended before t as
// completed.
func (repo *SessionRepository) CompleteEndedBefore(
	ctx context.Context,
	t time.Time,
) (int64, error) {
	query := `
		UPDATE calendar.sessions
		SET status = $2
		WHERE status = $3
		AND start_time + make_interval(mins => duration_minutes) < $1
	`

	result, err := repo.db.Exec(
		ctx,
		query,
		t,
		string(models.Completed),
		string(models.Scheduled),
	)
	if err != nil {
		return 0, postgres.PgxErrorToHTTPError(err)
	}

	return result.RowsAffected(), nil
}
