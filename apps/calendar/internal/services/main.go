package services

import (
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"swimschool.app/apps/calendar/internal/repositories"
	"swimschool.app/internal/auth"
	"swimschool.app/internal/config"
)

type Services struct {
	Auth      auth.Service
	Classes   *ClassService
	Sessions  *SessionService
	Calendar  *CalendarService
	WebSocket *WebSocketService
}

func New(
	logger *slog.Logger,
	config config.Config,
	jobQueue *threading.JobQueue,
	repositories *repositories.Repositories,
	sessionStore SessionStore,
	authService auth.Service,
) *Services {
	if sessionStore == nil {
		sessionStore = repositories.Sessions
	}

	classes := &ClassService{
		classes: repositories.Classes,
	}
	sessions := NewSessionService(
		logger,
		sessionStore,
		config.Location,
		config.HardCap,
	)
	calendar := &CalendarService{
		classes:  classes,
		sessions: sessions,
		webURL:   config.WebURL,
	}

	return &Services{
		Auth:      authService,
		Classes:   classes,
		Sessions:  sessions,
		Calendar:  calendar,
		WebSocket: NewWebSocketService(logger, []string{config.WebURL}, jobQueue),
	}
}
