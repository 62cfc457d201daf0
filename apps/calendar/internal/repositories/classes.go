package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"swimschool.app/apps/calendar/internal/models"
)

type ClassRepository struct {
	db postgres.DB
}

func (repo *ClassRepository) GetAll(ctx context.Context) ([]models.Class, error) {
	query := `
		SELECT id, name, level, instructor_id,
		default_duration_minutes, default_capacity
		FROM calendar.classes
		ORDER BY name ASC
	`

	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}
	defer rows.Close()

	classes := []models.Class{}
	for rows.Next() {
		//nolint:exhaustruct //fields are scanned
		class := models.Class{}

		err = rows.Scan(
			&class.ID,
			&class.Name,
			&class.Level,
			&class.InstructorID,
			&class.DefaultDurationMinutes,
			&class.DefaultCapacity,
		)
		if err != nil {
			return nil, postgres.PgxErrorToHTTPError(err)
		}

		classes = append(classes, class)
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return classes, nil
}

func (repo *ClassRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Class, error) {
	query := `
		SELECT name, level, instructor_id,
		default_duration_minutes, default_capacity
		FROM calendar.classes
		WHERE id = $1
	`

	//nolint:exhaustruct //other fields are scanned
	class := models.Class{
		ID: id,
	}
	err := repo.db.QueryRow(ctx, query, id).Scan(
		&class.Name,
		&class.Level,
		&class.InstructorID,
		&class.DefaultDurationMinutes,
		&class.DefaultCapacity,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, database.ErrResourceNotFound
	}
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &class, nil
}

func (repo *ClassRepository) Upsert(
	ctx context.Context,
	class models.Class,
) (*models.Class, error) {
	query := `
		INSERT INTO calendar.classes (id, name, level, instructor_id,
		default_duration_minutes, default_capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET name = $2, level = $3, instructor_id = $4,
		default_duration_minutes = $5, default_capacity = $6
		RETURNING id
	`

	err := repo.db.QueryRow(
		ctx,
		query,
		class.ID,
		class.Name,
		class.Level,
		class.InstructorID,
		class.DefaultDurationMinutes,
		class.DefaultCapacity,
	).Scan(&class.ID)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &class, nil
}

func (repo *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM calendar.classes
		WHERE id = $1
	`

	result, err := repo.db.Exec(ctx, query, id)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	if result.RowsAffected() == 0 {
		return database.ErrResourceNotFound
	}

	return nil
}
