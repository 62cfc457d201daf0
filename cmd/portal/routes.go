package main

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/justinas/alice"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/middleware"
	"github.com/xdoubleu/essentia/v2/pkg/tpl"
	"swimschool.app/internal/constants"
	"swimschool.app/internal/models"
)

func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", app.services.Auth.TemplateAccess(app.Home))

	app.authRoutes("api", mux)

	app.apps.Routes(mux)

	var sentryClientOptions sentry.ClientOptions
	if len(app.config.SentryDsn) > 0 {
		//nolint:exhaustruct //other fields are optional
		sentryClientOptions = sentry.ClientOptions{
			Dsn:              app.config.SentryDsn,
			Environment:      app.config.Env,
			Release:          app.config.Release,
			EnableTracing:    true,
			TracesSampleRate: app.config.SampleRate,
			SampleRate:       app.config.SampleRate,
		}
	}

	allowedOrigins := []string{app.config.WebURL}
	handlers, err := middleware.DefaultWithSentry(
		app.logger,
		allowedOrigins,
		app.config.Env,
		sentryClientOptions,
	)

	if err != nil {
		panic(err)
	}

	standard := alice.New(handlers...)
	return standard.Then(mux)
}

type HomeData struct {
	User *models.User
	Apps []string
}

func (app *Application) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{
		User: contexttools.GetValue[models.User](r.Context(), constants.UserContextKey),
		Apps: []string{},
	}
	for _, a := range app.apps.apps {
		data.Apps = append(data.Apps, a.GetName())
	}

	tpl.RenderWithPanic(app.tpl, w, "home.html", data)
}
