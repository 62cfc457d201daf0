package services

import (
	"context"

	"github.com/google/uuid"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/internal/repositories"
)

type ClassService struct {
	classes *repositories.ClassRepository
}

func (service *ClassService) GetAll(ctx context.Context) ([]models.Class, error) {
	return service.classes.GetAll(ctx)
}

func (service *ClassService) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Class, error) {
	return service.classes.GetByID(ctx, id)
}

func (service *ClassService) Create(
	ctx context.Context,
	dto *dtos.CreateClassDto,
) (*models.Class, error) {
	var instructorID *string
	if dto.InstructorID != "" {
		instructorID = &dto.InstructorID
	}

	return service.classes.Upsert(ctx, models.Class{
		ID:                     uuid.New(),
		Name:                   dto.Name,
		Level:                  dto.Level,
		InstructorID:           instructorID,
		DefaultDurationMinutes: dto.DefaultDurationMinutes,
		DefaultCapacity:        dto.DefaultCapacity,
	})
}

func (service *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	return service.classes.Delete(ctx, id)
}
