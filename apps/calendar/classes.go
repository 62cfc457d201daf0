package calendar

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/parse"
	"swimschool.app/apps/calendar/internal/dtos"
)

func (app *Calendar) classesRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("POST %s/classes", prefix),
		app.Services.Auth.Access(app.createClassHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/classes/{id}/delete", prefix),
		app.Services.Auth.Access(app.deleteClassHandler),
	)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := parse.URLParam[string](r, name, nil)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(value)
}

func (app *Calendar) createClassHandler(w http.ResponseWriter, r *http.Request) {
	var createClassDto dtos.CreateClassDto

	err := httptools.ReadForm(r, &createClassDto)
	if err != nil {
		httptools.RedirectWithError(w, r, fmt.Sprintf("/%s/", app.GetName()), err)
		return
	}

	if ok, errs := createClassDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	class, err := app.Services.Classes.Create(r.Context(), &createClassDto)
	if err != nil {
		httptools.RedirectWithError(w, r, fmt.Sprintf("/%s/", app.GetName()), err)
		return
	}

	http.Redirect(
		w,
		r,
		fmt.Sprintf("/%s/classes/%s", app.GetName(), class.ID),
		http.StatusSeeOther,
	)
}

func (app *Calendar) deleteClassHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid class id", http.StatusBadRequest)
		return
	}

	err = app.Services.Classes.Delete(r.Context(), id)
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/%s/", app.GetName()), http.StatusSeeOther)
}
