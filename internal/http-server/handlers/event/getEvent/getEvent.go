package getEvent

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmgr/internal/lib/api/response"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"
	"eventmgr/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventFinder
type EventFinder interface {
	Find(ref string) (models.Event, error)
}

// New serves a single event. The {id} path parameter accepts anything Find does:
// a full id, a unique id prefix or the event name.
func New(log *slog.Logger, finder EventFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEvent.New"

		log := log.With(slog.String("op", op))

		ref := chi.URLParam(r, "id")
		if ref == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("ref", ref))

		event, err := finder.Find(ref)
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Info("event not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		case errors.Is(err, store.ErrAmbiguous):
			log.Info("ambiguous event reference")
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("reference matches more than one event"))
			return
		case err != nil:
			log.Error("failed to find event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get event"))
			return
		}

		render.JSON(w, r, EventResponse{
			Response: response.OK(),
			Event:    &event,
		})
	}
}
