package calendar_test

import (
	"net/http"
	"os"
	"testing"
	"time"

	configtools "github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"swimschool.app/apps/calendar"
	"swimschool.app/apps/calendar/internal/services"
	"swimschool.app/internal/config"
	sharedmocks "swimschool.app/internal/mocks"
)

var testApp *calendar.Calendar //nolint:gochecknoglobals //needed for tests

//nolint:gochecknoglobals //needed for tests
var (
	testCfg config.Config
	testDB  postgres.DB
)

//nolint:gochecknoglobals //needed for tests
var userID = "4001e9cf-3fbe-4b09-863f-bd1654cfbf76"

//nolint:gochecknoglobals //needed for tests
var accessToken = http.Cookie{
	Name:  "accessToken",
	Value: "access",
}

//nolint:gochecknoglobals //needed for tests
var refreshToken = http.Cookie{
	Name:  "refreshToken",
	Value: "refresh",
}

func TestMain(m *testing.M) {
	var err error

	cfg := config.New(logging.NewNopLogger())
	cfg.Env = configtools.TestEnv
	cfg.Throttle = false
	cfg.SupabaseUserID = userID
	cfg.Location = time.UTC
	cfg.HardCap = 1000

	postgresDB, err := postgres.Connect(
		logging.NewNopLogger(),
		cfg.DBDsn,
		25,
		"15m",
		5,
		15*time.Second,
		30*time.Second,
	)
	if err != nil {
		panic(err)
	}

	testCfg = cfg
	testDB = postgresDB

	testApp = calendar.NewInner(
		sharedmocks.NewMockedAuthService(userID),
		logging.NewNopLogger(),
		cfg,
		postgresDB,
		nil,
	)

	err = testApp.ApplyMigrations(postgresDB)
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func getRoutes() http.Handler {
	return getAppRoutes(testApp)
}

func getAppRoutes(app *calendar.Calendar) http.Handler {
	mux := http.NewServeMux()
	app.Routes(app.GetName(), mux)
	return mux
}

// newAppWithSessionStore builds an app on the test database whose sessions
// live in store.
func newAppWithSessionStore(store services.SessionStore) *calendar.Calendar {
	return calendar.NewInner(
		sharedmocks.NewMockedAuthService(userID),
		logging.NewNopLogger(),
		testCfg,
		testDB,
		store,
	)
}
