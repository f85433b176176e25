package getEvent

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmgr/internal/http-server/handlers/event/getEvent/mocks"
	"eventmgr/internal/lib/logger/handlers/slogdiscard"
	"eventmgr/internal/models"
	"eventmgr/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	event := models.Event{
		ID:       "5f0c2d4e-1111-4a7b-9c3d-0123456789ab",
		Name:     "Planning",
		Type:     "meeting",
		Date:     "2024-05-10",
		Start:    "10:00",
		End:      "11:30",
		Location: "Room 4",
	}

	testCases := []struct {
		name           string
		ref            string
		mockSetup      func(m *mocks.EventFinder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Found by prefix",
			ref:  "5f0c",
			mockSetup: func(m *mocks.EventFinder) {
				m.On("Find", "5f0c").Return(event, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not found",
			ref:  "nope",
			mockSetup: func(m *mocks.EventFinder) {
				m.On("Find", "nope").Return(models.Event{}, fmt.Errorf("%q: %w", "nope", store.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name: "Ambiguous",
			ref:  "abcd",
			mockSetup: func(m *mocks.EventFinder) {
				m.On("Find", "abcd").Return(models.Event{}, store.ErrAmbiguous)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"reference matches more than one event"}`,
		},
		{
			name: "Unexpected error",
			ref:  "boom",
			mockSetup: func(m *mocks.EventFinder) {
				m.On("Find", "boom").Return(models.Event{}, errors.New("disk on fire"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			finder := mocks.NewEventFinder(t)
			tc.mockSetup(finder)

			router := chi.NewRouter()
			router.Get("/events/{id}", New(logger, finder))

			req := httptest.NewRequest(http.MethodGet, "/events/"+tc.ref, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
				return
			}

			var resp EventResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "OK", resp.Status)
			require.NotNil(t, resp.Event)
			assert.Equal(t, event, *resp.Event)
		})
	}
}

func TestHandlerWithoutChiContext(t *testing.T) {
	t.Parallel()

	finder := mocks.NewEventFinder(t)
	handler := New(slogdiscard.NewDiscardLogger(), finder)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "event id is required")
}
