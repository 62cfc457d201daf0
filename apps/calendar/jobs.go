package calendar

import (
	"fmt"
	"net/http"

	"github.com/xdoubleu/essentia/v2/pkg/parse"
)

func (app *Calendar) jobsRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET %s/jobs", prefix),
		app.Services.WebSocket.Handler(),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET %s/jobs/{id}/run", prefix),
		app.Services.Auth.Access(app.runJobHandler),
	)
}

func (app *Calendar) runJobHandler(_ http.ResponseWriter, r *http.Request) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	_, lastRunTime := app.jobQueue.FetchState(id)
	app.Services.WebSocket.UpdateState(id, true, lastRunTime)

	app.jobQueue.ForceRun(id)
}
