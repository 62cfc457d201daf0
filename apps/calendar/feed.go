package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

const (
	feedPastDays   = 30
	feedFutureDays = 365
)

func (app *Calendar) feedRoutes(prefix string, mux *http.ServeMux) {
	// public so calendar clients can subscribe without a session cookie
	mux.HandleFunc(fmt.Sprintf("GET /%s/feed/{id}", prefix), app.feedHandler)
}

func (app *Calendar) feedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(strings.TrimSuffix(r.PathValue("id"), ".ics"))
	if err != nil {
		http.Error(w, "Invalid feed URL", http.StatusBadRequest)
		return
	}

	now := time.Now()
	feed, err := app.Services.Calendar.Feed(
		r.Context(),
		id,
		now.AddDate(0, 0, -feedPastDays),
		now.AddDate(0, 0, feedFutureDays),
	)
	if errors.Is(err, database.ErrResourceNotFound) {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}
	if err != nil {
		app.logger.Error("failed to build calendar feed", logging.ErrAttr(err))
		http.Error(w, "Feed unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, err = w.Write([]byte(feed))
	if err != nil {
		app.logger.Error("failed to write calendar feed", logging.ErrAttr(err))
	}
}
