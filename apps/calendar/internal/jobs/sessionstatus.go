package jobs

import (
	"context"
	"log/slog"
	"time"

	"swimschool.app/apps/calendar/internal/services"
)

// SessionStatusJob marks scheduled sessions that have ended as completed.
type SessionStatusJob struct {
	sessionService *services.SessionService
	now            func() time.Time
}

func NewSessionStatusJob(sessionService *services.SessionService) SessionStatusJob {
	return SessionStatusJob{
		sessionService: sessionService,
		now:            time.Now,
	}
}

func (j SessionStatusJob) ID() string {
	return "session-status"
}

func (j SessionStatusJob) RunEvery() time.Duration {
	return time.Hour
}

func (j SessionStatusJob) Run(ctx context.Context, logger *slog.Logger) error {
	completed, err := j.sessionService.CompleteEnded(ctx, j.now())
	if err != nil {
		return err
	}

	logger.Debug("completed ended sessions", slog.Int64("count", completed))

	return nil
}
