package calendar

import (
	"fmt"
	"net/http"
)

func (app *Calendar) apiRoutes(prefix string, mux *http.ServeMux) {
	apiPrefix := fmt.Sprintf("/%s/api", prefix)
	app.classesRoutes(apiPrefix, mux)
	app.sessionsRoutes(apiPrefix, mux)
	app.jobsRoutes(apiPrefix, mux)
}

func (app *Calendar) Routes(prefix string, mux *http.ServeMux) {
	app.templateRoutes(prefix, mux)
	app.apiRoutes(prefix, mux)
	app.feedRoutes(prefix, mux)
}
