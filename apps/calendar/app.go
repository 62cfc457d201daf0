package calendar

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"swimschool.app/apps/calendar/internal/jobs"
	"swimschool.app/apps/calendar/internal/repositories"
	"swimschool.app/apps/calendar/internal/services"
	"swimschool.app/internal/auth"
	"swimschool.app/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

//go:embed templates/html/**/*html
var htmlTemplates embed.FS

type Calendar struct {
	logger       *slog.Logger
	ctx          context.Context
	ctxCancel    context.CancelFunc
	db           postgres.DB
	Config       config.Config
	Services     *services.Services
	Repositories *repositories.Repositories
	tpl          *template.Template
	jobQueue     *threading.JobQueue
	sessionStore services.SessionStore
}

func New(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
) *Calendar {
	return NewInner(authService, logger, cfg, db, nil)
}

// NewInner builds the app. A nil sessionStore stores sessions in db.
func NewInner(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
	sessionStore services.SessionStore,
) *Calendar {
	tpl := template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(htmlTemplates, "templates/html/**/*.html"),
	)

	//nolint:mnd //no magic number
	jobQueue := threading.NewJobQueue(logger, 2, 100)

	//nolint:exhaustruct //other fields are optional
	app := &Calendar{
		logger:       logger,
		Config:       cfg,
		tpl:          tpl,
		jobQueue:     jobQueue,
		sessionStore: sessionStore,
	}

	app.setContext()
	app.setDB(db, authService)
	app.setJobs()

	return app
}

func (app *Calendar) setDB(
	db postgres.DB,
	authService auth.Service,
) {
	// make sure previous app is cancelled internally
	app.ctxCancel()
	app.jobQueue.Clear()

	app.setContext()

	spandb := postgres.NewSpanDB(db)
	app.db = spandb

	app.Repositories = repositories.New(app.db)
	app.Services = services.New(
		app.logger,
		app.Config,
		app.jobQueue,
		app.Repositories,
		app.sessionStore,
		authService,
	)
}

func (app *Calendar) setJobs() {
	err := app.jobQueue.AddJob(
		jobs.NewSessionStatusJob(app.Services.Sessions),
		app.Services.WebSocket.UpdateState,
	)
	if err != nil {
		panic(err)
	}

	app.Services.WebSocket.RegisterTopics(app.jobQueue.FetchJobIDs())
}

func (app *Calendar) setContext() {
	ctx, cancel := context.WithCancel(context.Background())
	app.ctx = ctx
	app.ctxCancel = cancel
}

func (app *Calendar) ApplyMigrations(db *pgxpool.Pool) error {
	migrationsDB := stdlib.OpenDBFromPool(db)

	goose.SetLogger(slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo))

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}

	if err := goose.Up(migrationsDB, "migrations"); err != nil {
		return err
	}

	return nil
}

func (app *Calendar) GetName() string {
	return "calendar"
}
