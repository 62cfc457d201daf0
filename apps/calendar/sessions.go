package calendar

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	tpltools "github.com/xdoubleu/essentia/v2/pkg/tpl"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/models"
	"swimschool.app/apps/calendar/internal/services"
	"swimschool.app/apps/calendar/pkg/recurrence"
	"swimschool.app/internal/constants"
	sharedmodels "swimschool.app/internal/models"
)

func (app *Calendar) sessionsRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("POST %s/classes/{id}/preview", prefix),
		app.Services.Auth.TemplateAccess(app.previewSessionsHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/classes/{id}/sessions", prefix),
		app.Services.Auth.Access(app.createSessionsHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/series/{id}/cancel", prefix),
		app.Services.Auth.Access(app.cancelSeriesHandler),
	)
}

type PreviewData struct {
	Class    models.Class
	Series   models.Series
	Form     dtos.CreateSessionsDto
	Weekdays []WeekdayOption
}

// readSessionsForm resolves the class and the form shared by preview and
// create. It writes the response itself when ok is false.
func (app *Calendar) readSessionsForm(
	w http.ResponseWriter,
	r *http.Request,
) (*models.Class, *sharedmodels.User, *dtos.CreateSessionsDto, bool) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid class id", http.StatusBadRequest)
		return nil, nil, nil, false
	}

	user := contexttools.GetValue[sharedmodels.User](r.Context(), constants.UserContextKey)
	if user == nil {
		panic(errors.New("not signed in"))
	}

	var createSessionsDto dtos.CreateSessionsDto

	err = httptools.ReadForm(r, &createSessionsDto)
	if err != nil {
		httptools.RedirectWithError(w, r, fmt.Sprintf("/%s/classes/%s", app.GetName(), id), err)
		return nil, nil, nil, false
	}

	if ok, errs := createSessionsDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return nil, nil, nil, false
	}

	class, err := app.Services.Classes.GetByID(r.Context(), id)
	if err != nil {
		httptools.HandleError(w, r, err)
		return nil, nil, nil, false
	}

	return class, user, &createSessionsDto, true
}

func (app *Calendar) previewSessionsHandler(w http.ResponseWriter, r *http.Request) {
	class, user, createSessionsDto, ok := app.readSessionsForm(w, r)
	if !ok {
		return
	}

	series, err := app.Services.Sessions.Preview(*class, user.ID, createSessionsDto)
	if err != nil {
		app.handleSeriesError(w, r, err)
		return
	}

	tpltools.RenderWithPanic(app.tpl, w, "preview.html", PreviewData{
		Class:    *class,
		Series:   *series,
		Form:     *createSessionsDto,
		Weekdays: weekdayOptions(),
	})
}

func (app *Calendar) createSessionsHandler(w http.ResponseWriter, r *http.Request) {
	class, user, createSessionsDto, ok := app.readSessionsForm(w, r)
	if !ok {
		return
	}

	_, err := app.Services.Sessions.ScheduleSeries(
		r.Context(),
		*class,
		user.ID,
		createSessionsDto,
	)
	if err != nil {
		app.handleSeriesError(w, r, err)
		return
	}

	http.Redirect(
		w,
		r,
		fmt.Sprintf("/%s/classes/%s", app.GetName(), class.ID),
		http.StatusSeeOther,
	)
}

func (app *Calendar) cancelSeriesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid series id", http.StatusBadRequest)
		return
	}

	_, err = app.Services.Sessions.CancelSeries(r.Context(), id)
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/%s/", app.GetName()), http.StatusSeeOther)
}

func (app *Calendar) handleSeriesError(w http.ResponseWriter, r *http.Request, err error) {
	if fields, ok := recurrence.FieldErrors(err); ok {
		httptools.FailedValidationResponse(w, r, fields)
		return
	}

	var partialErr *services.PartialInsertError
	if errors.As(err, &partialErr) {
		app.logger.Error(
			"series was stored in part",
			slog.String("seriesId", partialErr.SeriesID.String()),
			slog.Int("inserted", partialErr.Inserted),
			slog.Int("total", partialErr.Total),
			slog.Bool("rolledBack", partialErr.RolledBack),
			logging.ErrAttr(partialErr.Err),
		)

		http.Error(w, partialInsertMessage(partialErr), http.StatusConflict)
		return
	}

	httptools.HandleError(w, r, err)
}

func partialInsertMessage(err *services.PartialInsertError) string {
	message := fmt.Sprintf(
		"Scheduling failed: stored %d of %d sessions, rolled back: %t.",
		err.Inserted,
		err.Total,
		err.RolledBack,
	)
	if !err.RolledBack {
		message += " Cancel the series to remove the stored sessions."
	}
	return message
}
