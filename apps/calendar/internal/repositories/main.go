package repositories

import (
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
)

type Repositories struct {
	Classes  *ClassRepository
	Sessions *SessionRepository
}

func New(db postgres.DB) *Repositories {
	classes := &ClassRepository{db: db}
	sessions := &SessionRepository{db: db}

	return &Repositories{
		Classes:  classes,
		Sessions: sessions,
	}
}
