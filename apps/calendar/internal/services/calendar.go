package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"swimschool.app/apps/calendar/internal/models"
)

const seriesProperty = ics.ComponentProperty("X-SWIMSCHOOL-SERIES")

type CalendarService struct {
	classes  *ClassService
	sessions *SessionService
	webURL   string
}

// Feed renders the sessions of a class starting in [from, to) as an
// iCalendar document.
func (service *CalendarService) Feed(
	ctx context.Context,
	classID uuid.UUID,
	from time.Time,
	to time.Time,
) (string, error) {
	class, err := service.classes.GetByID(ctx, classID)
	if err != nil {
		return "", err
	}

	sessions, err := service.sessions.ListSessions(ctx, from, to, &classID)
	if err != nil {
		return "", err
	}

	return RenderFeed(*class, sessions, service.webURL, time.Now()), nil
}

// RenderFeed builds one VEVENT per session. stamp is used as DTSTAMP.
func RenderFeed(
	class models.Class,
	sessions []models.Session,
	webURL string,
	stamp time.Time,
) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//swimschool.app//calendar//EN")
	cal.SetXWRCalName(class.Name)

	for _, session := range sessions {
		event := cal.AddEvent(session.ID.String())
		event.SetDtStampTime(stamp)
		event.SetSummary(summary(class))
		event.SetProperty(seriesProperty, session.SeriesID.String())
		event.SetURL(fmt.Sprintf("%s/calendar/", webURL))

		if session.AllDay {
			event.SetAllDayStartAt(session.StartTime)
			event.SetAllDayEndAt(session.StartTime.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(session.StartTime)
			event.SetEndAt(session.EndTime())
		}

		if session.Notes != "" {
			event.SetDescription(session.Notes)
		}

		switch session.Status {
		case models.Cancelled:
			event.SetStatus(ics.ObjectStatusCancelled)
		case models.Scheduled, models.Completed:
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}

func summary(class models.Class) string {
	if class.Level == "" {
		return class.Name
	}
	return fmt.Sprintf("%s (%s)", class.Name, class.Level)
}
