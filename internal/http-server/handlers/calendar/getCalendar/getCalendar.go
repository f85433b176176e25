package getCalendar

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"eventmgr/internal/ical"
	"eventmgr/internal/lib/api/response"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"

	"github.com/go-chi/render"
)

const contentType = "text/calendar; charset=utf-8"

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventLister
type EventLister interface {
	List() []models.Event
}

// New serves every event as one iCalendar feed that calendar clients can subscribe to.
func New(log *slog.Logger, lister EventLister, loc *time.Location, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.getCalendar.New"

		log := log.With(slog.String("op", op))

		events := lister.List()

		var buf bytes.Buffer
		if err := ical.Encode(&buf, events, loc, now()); err != nil {
			log.Error("failed to encode calendar", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to encode calendar"))
			return
		}

		log.Debug("calendar served", slog.Int("count", len(events)))

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `inline; filename="events.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
