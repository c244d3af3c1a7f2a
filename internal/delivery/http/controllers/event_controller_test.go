package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusbooking/internal/delivery/http/helpers"
	"campusbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validEventBody = `{
	"title": "Fall Concert",
	"date": "2026-11-05",
	"time_start": "18:00",
	"time_end": "20:30",
	"location": "Main Hall",
	"category": "music",
	"price": "12.50",
	"total_tickets": 100
}`

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authed     bool
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: validEventBody, authed: true, wantStatus: http.StatusCreated},
		{name: "unauthenticated", body: validEventBody, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "malformed date", body: `{"title":"x","date":"11/05/2026"}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "unknown field", body: `{"title":"x","available_tickets":5}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "missing location", body: `{"title":"x","date":"2026-11-05","time_start":"18:00","time_end":"19:00","total_tickets":1}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "price above column range", body: `{"title":"x","date":"2026-11-05","time_start":"18:00","time_end":"19:00","location":"y","price":"100000000.00","total_tickets":1}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "tickets above column range", body: `{"title":"x","date":"2026-11-05","time_start":"18:00","time_end":"19:00","location":"y","total_tickets":2147483648}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "negative tickets", body: `{"title":"x","date":"2026-11-05","time_start":"18:00","time_end":"19:00","location":"y","total_tickets":-1}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "student forbidden", body: validEventBody, authed: true, svcErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "service failure", body: validEventBody, authed: true, svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			ctrl := NewEventController(testLogger, svc)
			req := newRequest(http.MethodPost, "/events", tt.body)
			if tt.authed {
				req = asUser(req, 3, domain.RoleFaculty)
			}
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				apiErr := decodeEnvelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			var got domain.Event
			assert.Nil(t, decodeEnvelope(t, rr, &got))
			assert.Equal(t, int64(7), got.ID)
			assert.Equal(t, domain.Money(1250), got.Price)
			assert.Equal(t, int64(3), svc.lastOrgID)
			assert.Equal(t, 100, svc.lastTotal)
			assert.Equal(t, domain.Date{Year: 2026, Month: time.November, Day: 5}, svc.lastDetails.Date)
			assert.Equal(t, domain.NewTimeOfDay(18, 0), svc.lastDetails.TimeStart)
		})
	}
}

func TestEventController_CreateEvent_InternalErrorHidesCause(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{err: errors.New("pq: password authentication failed")})
	rr := httptest.NewRecorder()
	ctrl.CreateEvent(rr, asUser(newRequest(http.MethodPost, "/events", validEventBody), 3, domain.RoleFaculty))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{sampleEvent()}, total: 41}
	ctrl := NewEventController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.ListEvents(rr, newRequest(http.MethodGet, "/events?category=music&organizer_id=3&page=2&page_size=20", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	var got ListEventsResponse
	assert.Nil(t, decodeEnvelope(t, rr, &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 20, Total: 41, TotalPages: 3}, got.Pagination)
	assert.Equal(t, domain.EventFilter{Category: "music", OrganizerID: 3}, svc.lastFilter)

	rr = httptest.NewRecorder()
	ctrl.ListEvents(rr, newRequest(http.MethodGet, "/events?organizer_id=abc", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventController_GetEventByID(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		svcErr     error
		wantStatus int
	}{
		{name: "success", eventID: "7", wantStatus: http.StatusOK},
		{name: "non numeric id", eventID: "abc", wantStatus: http.StatusBadRequest},
		{name: "zero id", eventID: "0", wantStatus: http.StatusBadRequest},
		{name: "not found", eventID: "8", svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeEventService{event: sampleEvent(), err: tt.svcErr})
			rr := httptest.NewRecorder()
			ctrl.GetEventByID(rr, newRequest(http.MethodGet, "/events/"+tt.eventID, "", "eventID", tt.eventID))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"title":"Winter Concert","price":"5"}`, wantStatus: http.StatusOK},
		{name: "empty patch", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "ticket counts are immutable", body: `{"total_tickets":500}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "not organizer", body: `{"title":"x"}`, svcErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "merged result invalid", body: `{"title":""}`, svcErr: domain.NewValidationError("title is required"), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			ctrl := NewEventController(testLogger, svc)
			req := asUser(newRequest(http.MethodPatch, "/events/7", tt.body, "eventID", "7"), 3, domain.RoleFaculty)
			rr := httptest.NewRecorder()

			ctrl.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				apiErr := decodeEnvelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.NotNil(t, svc.lastPatch.Title)
			assert.Equal(t, "Winter Concert", *svc.lastPatch.Title)
			require.NotNil(t, svc.lastPatch.Price)
			assert.Equal(t, domain.Money(500), *svc.lastPatch.Price)
			assert.Nil(t, svc.lastPatch.Location)
			assert.Equal(t, int64(3), svc.lastActorID)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "live tickets", svcErr: domain.ErrConflict, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "not found", svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeEventService{err: tt.svcErr})
			rr := httptest.NewRecorder()
			ctrl.DeleteEvent(rr, asUser(newRequest(http.MethodDelete, "/events/7", "", "eventID", "7"), 3, domain.RoleFaculty))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				apiErr := decodeEnvelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			var got DeleteEventResponse
			assert.Nil(t, decodeEnvelope(t, rr, &got))
			assert.Equal(t, "deleted", got.Status)
		})
	}
}
