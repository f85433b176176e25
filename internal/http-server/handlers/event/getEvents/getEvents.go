package getEvents

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmgr/internal/lib/api/response"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Query struct {
	Date  string `validate:"omitempty,datetime=2006-01-02"`
	Query string `validate:"omitempty,max=200"`
}

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventLister
type EventLister interface {
	List() []models.Event
	ListByDay(date string) []models.Event
	Search(query string) []models.Event
}

func New(log *slog.Logger, lister EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEvents.New"

		log := log.With(
			slog.String("op", op),
		)

		q := Query{
			Date:  r.URL.Query().Get("date"),
			Query: r.URL.Query().Get("q"),
		}

		if err := validator.New().Struct(q); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		var events []models.Event
		switch {
		case q.Date != "" && q.Query != "":
			for _, e := range lister.Search(q.Query) {
				if e.Date == q.Date {
					events = append(events, e)
				}
			}
		case q.Date != "":
			events = lister.ListByDay(q.Date)
		case q.Query != "":
			events = lister.Search(q.Query)
		default:
			events = lister.List()
		}

		if events == nil {
			events = []models.Event{}
		}

		log.Debug("events listed", slog.Int("count", len(events)))

		render.JSON(w, r, EventsResponse{
			Response: response.OK(),
			Events:   events,
		})
	}
}
