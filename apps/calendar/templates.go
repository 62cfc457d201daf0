package calendar

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	tpltools "github.com/xdoubleu/essentia/v2/pkg/tpl"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/pkg/recurrence"
	"swimschool.app/internal/constants"
	sharedmodels "swimschool.app/internal/models"
)

const (
	upcomingDays = 14
	classDays    = 180
)

//nolint:gochecknoglobals //template helpers
var templateFuncs = template.FuncMap{
	"when": func(start time.Time, allDay bool) string {
		if allDay {
			return start.Format("Mon 2 Jan 2006")
		}
		return start.Format("Mon 2 Jan 2006 15:04")
	},
}

type WeekdayOption struct {
	Value int
	Name  string
}

func weekdayOptions() []WeekdayOption {
	options := make([]WeekdayOption, 0, 7) //nolint:mnd //days in a week
	for day := time.Sunday; day <= time.Saturday; day++ {
		options = append(options, WeekdayOption{Value: int(day), Name: day.String()[:3]})
	}
	return options
}

func (app *Calendar) templateRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/{$}", prefix),
		app.Services.Auth.TemplateAccess(app.rootHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/classes/{id}", prefix),
		app.Services.Auth.TemplateAccess(app.classHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/sessions/{id}", prefix),
		app.Services.Auth.TemplateAccess(app.sessionHandler),
	)
}

type UpcomingSession struct {
	models.Session
	ClassName string
}

type RootData struct {
	User     sharedmodels.User
	Classes  []models.Class
	Upcoming []UpcomingSession
}

func (app *Calendar) rootHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)
	if user == nil {
		panic(errors.New("not signed in"))
	}

	classes, err := app.Services.Classes.GetAll(r.Context())
	if err != nil {
		panic(err)
	}

	classNames := make(map[uuid.UUID]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}

	sessions, err := app.Services.Sessions.ListUpcoming(r.Context(), time.Now(), upcomingDays)
	if err != nil {
		panic(err)
	}

	upcoming := make([]UpcomingSession, 0, len(sessions))
	for _, session := range sessions {
		upcoming = append(upcoming, UpcomingSession{
			Session:   session,
			ClassName: classNames[session.ClassID],
		})
	}

	tpltools.RenderWithPanic(app.tpl, w, "calendar.html", RootData{
		User:     *user,
		Classes:  classes,
		Upcoming: upcoming,
	})
}

type ClassData struct {
	Class       models.Class
	Sessions    []models.Session
	Frequencies []recurrence.Frequency
	Weekdays    []WeekdayOption
	Today       string
	FeedURL     string
}

func (app *Calendar) classHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid class id", http.StatusBadRequest)
		return
	}

	class, err := app.Services.Classes.GetByID(r.Context(), id)
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	now := time.Now().In(app.Services.Sessions.Location())
	sessions, err := app.Services.Sessions.ListSessions(
		r.Context(),
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, classDays),
		&id,
	)
	if err != nil {
		panic(err)
	}

	tpltools.RenderWithPanic(app.tpl, w, "class.html", ClassData{
		Class:       *class,
		Sessions:    sessions,
		Frequencies: recurrence.Frequencies,
		Weekdays:    weekdayOptions(),
		Today:       now.Format(time.DateOnly),
		FeedURL:     fmt.Sprintf("%s/%s/feed/%s.ics", app.Config.WebURL, app.GetName(), id),
	})
}

type SessionData struct {
	Class   models.Class
	Session models.Session
	EndTime time.Time
}

func (app *Calendar) sessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}

	session, err := app.Services.Sessions.GetSession(r.Context(), id)
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	class, err := app.Services.Classes.GetByID(r.Context(), session.ClassID)
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	location := app.Services.Sessions.Location()
	session.StartTime = session.StartTime.In(location)

	tpltools.RenderWithPanic(app.tpl, w, "session.html", SessionData{
		Class:   *class,
		Session: *session,
		EndTime: session.EndTime().In(location),
	})
}
