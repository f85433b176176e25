package getEvents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmgr/internal/http-server/handlers/event/getEvents/mocks"
	"eventmgr/internal/lib/logger/handlers/slogdiscard"
	"eventmgr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEventsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	standup := models.Event{ID: "e1", Name: "Standup", Type: "meeting", Date: "2024-03-01", Start: "09:00", End: "09:15"}
	review := models.Event{ID: "e2", Name: "Design Review", Type: "meeting", Date: "2024-03-02", Start: "14:00", End: "15:00"}

	testCases := []struct {
		name           string
		url            string
		mockSetup      func(m *mocks.EventLister)
		expectedStatus int
		expectedBody   string
		expectedIDs    []string
	}{
		{
			name: "All events",
			url:  "/events",
			mockSetup: func(m *mocks.EventLister) {
				m.On("List").Return([]models.Event{standup, review})
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"e1", "e2"},
		},
		{
			name: "Events on a day",
			url:  "/events?date=2024-03-02",
			mockSetup: func(m *mocks.EventLister) {
				m.On("ListByDay", "2024-03-02").Return([]models.Event{review})
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"e2"},
		},
		{
			name: "Search",
			url:  "/events?q=stand",
			mockSetup: func(m *mocks.EventLister) {
				m.On("Search", "stand").Return([]models.Event{standup})
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"e1"},
		},
		{
			name: "Search narrowed to a day",
			url:  "/events?q=e&date=2024-03-01",
			mockSetup: func(m *mocks.EventLister) {
				m.On("Search", "e").Return([]models.Event{standup, review})
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"e1"},
		},
		{
			name: "Empty store encodes an empty list",
			url:  "/events",
			mockSetup: func(m *mocks.EventLister) {
				m.On("List").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","events":[]}`,
		},
		{
			name:           "Malformed date",
			url:            "/events?date=03/01/2024",
			mockSetup:      func(m *mocks.EventLister) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Date must match 2006-01-02"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lister := mocks.NewEventLister(t)
			tc.mockSetup(lister)

			handler := New(logger, lister)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
				return
			}

			var resp EventsResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "OK", resp.Status)

			ids := make([]string, 0, len(resp.Events))
			for _, e := range resp.Events {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}
