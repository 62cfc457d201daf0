package dtos

import "github.com/xdoubleu/essentia/v2/pkg/validate"

type CreateClassDto struct {
	Name                   string `schema:"name"`
	Level                  string `schema:"level"`
	InstructorID           string `schema:"instructorId"`
	DefaultDurationMinutes int    `schema:"defaultDurationMinutes"`
	DefaultCapacity        int    `schema:"defaultCapacity"`
}

func (dto *CreateClassDto) Validate() (bool, map[string]string) {
	v := validate.New()

	validate.Check(v, "name", dto.Name, validate.IsNotEmpty)
	validate.Check(
		v,
		"defaultDurationMinutes",
		dto.DefaultDurationMinutes,
		validate.IsGreaterThan(0),
	)
	validate.Check(v, "defaultCapacity", dto.DefaultCapacity, validate.IsGreaterThan(0))

	return v.Valid(), v.Errors()
}
