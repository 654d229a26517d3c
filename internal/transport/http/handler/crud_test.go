package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-events-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockClubSvc struct{ mock.Mock }

func (m *mockClubSvc) Create(ctx context.Context, ownerID string, req domain.CreateClubRequest) (*domain.Club, error) {
	args := m.Called(ctx, ownerID, req)
	if c, _ := args.Get(0).(*domain.Club); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClubSvc) Get(ctx context.Context, clubID string) (*domain.Club, error) {
	args := m.Called(ctx, clubID)
	if c, _ := args.Get(0).(*domain.Club); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClubSvc) List(ctx context.Context, limit int) ([]domain.Club, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Club), args.Error(1)
}

func (m *mockClubSvc) Update(ctx context.Context, callerID, clubID string, req domain.UpdateClubRequest) (*domain.Club, error) {
	args := m.Called(ctx, callerID, clubID, req)
	if c, _ := args.Get(0).(*domain.Club); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEventSvc struct{ mock.Mock }

func (m *mockEventSvc) Create(ctx context.Context, callerID, clubID string, req domain.CreateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, callerID, clubID, req)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventSvc) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventSvc) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventSvc) ListUpcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventSvc) Update(ctx context.Context, callerID, eventID string, req domain.UpdateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, callerID, eventID, req)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventSvc) Delete(ctx context.Context, callerID, eventID string) error {
	return m.Called(ctx, callerID, eventID).Error(0)
}

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Sync(ctx context.Context, ident domain.Identity) (*domain.User, error) {
	args := m.Called(ctx, ident)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- clubs ---

func TestCreateClub_RequiresSession(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(t, http.MethodPost, "/api/clubs", domain.CreateClubRequest{Name: "Chess", OfficialEmail: "chess@campus.edu"}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateClub_Success(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)
	req := domain.CreateClubRequest{Name: "Chess", OfficialEmail: "chess@campus.edu"}
	svc.On("Create", mock.Anything, "u1", req).Return(&domain.Club{ClubID: "c1", Name: "Chess", OwnerID: "u1"}, nil)

	rr := httptest.NewRecorder()
	h.Create(rr, withSession(jsonRequest(t, http.MethodPost, "/api/clubs", req), "u1"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "c1", decodeBody(t, rr)["id"])
	svc.AssertExpectations(t)
}

func TestCreateClub_InvalidBody(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, withSession(jsonRequest(t, http.MethodPost, "/api/clubs", map[string]string{"name": "Chess", "officialEmail": "nope"}), "u1"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateClub_NotOwner(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)
	name := "Go Club"
	req := domain.UpdateClubRequest{Name: &name}
	svc.On("Update", mock.Anything, "u2", "c1", req).Return(nil, fmt.Errorf("only the club owner can do this: %w", domain.ErrForbidden))

	rr := httptest.NewRecorder()
	h.Update(rr, withSession(withChiID(jsonRequest(t, http.MethodPut, "/api/clubs/c1", req), "c1"), "u2"))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "only the club owner can do this", decodeBody(t, rr)["error"])
}

func TestGetClub_NotFound(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)
	svc.On("Get", mock.Anything, "missing").Return(nil, fmt.Errorf("club not found: %w", domain.ErrNotFound))

	rr := httptest.NewRecorder()
	h.Get(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/clubs/missing", nil), "missing"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "club not found", decodeBody(t, rr)["error"])
}

func TestListClubs_PassesLimit(t *testing.T) {
	svc := &mockClubSvc{}
	h := NewClubHandler(svc)
	svc.On("List", mock.Anything, 5).Return([]domain.Club{{ClubID: "c1"}}, nil)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/clubs?limit=5", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- events ---

func TestCreateEvent_Success(t *testing.T) {
	svc := &mockEventSvc{}
	h := NewEventHandler(svc)
	start := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)
	req := domain.CreateEventRequest{Title: "Blitz night", StartsAt: start, EndsAt: start.Add(2 * time.Hour)}
	svc.On("Create", mock.Anything, "u1", "c1", req).Return(&domain.Event{EventID: "e1", ClubID: "c1"}, nil)

	rr := httptest.NewRecorder()
	h.Create(rr, withSession(withChiID(jsonRequest(t, http.MethodPost, "/api/clubs/c1/events", req), "c1"), "u1"))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "e1", decodeBody(t, rr)["id"])
}

func TestDeleteEvent(t *testing.T) {
	svc := &mockEventSvc{}
	h := NewEventHandler(svc)
	svc.On("Delete", mock.Anything, "u1", "e1").Return(nil)

	rr := httptest.NewRecorder()
	h.Delete(rr, withSession(withChiID(httptest.NewRequest(http.MethodDelete, "/api/events/e1", nil), "e1"), "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "event deleted", decodeBody(t, rr)["message"])
}

func TestDeleteEvent_RequiresSession(t *testing.T) {
	svc := &mockEventSvc{}
	h := NewEventHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(httptest.NewRequest(http.MethodDelete, "/api/events/e1", nil), "e1"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUpcomingEvents(t *testing.T) {
	svc := &mockEventSvc{}
	h := NewEventHandler(svc)
	svc.On("ListUpcoming", mock.Anything, 0).Return([]domain.Event{{EventID: "e1"}, {EventID: "e2"}}, nil)

	rr := httptest.NewRecorder()
	h.ListUpcoming(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"e2"`)
}

// --- users ---

func TestMe(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewUserHandler(svc)
	svc.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "u1@campus.edu"}, nil)

	rr := httptest.NewRecorder()
	h.Me(rr, withSession(httptest.NewRequest(http.MethodGet, "/api/me", nil), "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1@campus.edu", decodeBody(t, rr)["email"])
}

func TestSyncUser_OtherSubjectForbidden(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewUserHandler(svc)
	ident := domain.Identity{Subject: "u2", Email: "u2@campus.edu"}

	rr := httptest.NewRecorder()
	h.Sync(rr, withSession(jsonRequest(t, http.MethodPost, "/api/users/sync", ident), "u1"))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	svc.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything)
}

func TestSyncUser_Self(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewUserHandler(svc)
	ident := domain.Identity{Subject: "u1", Email: "u1@campus.edu", FullName: "Ada"}
	svc.On("Sync", mock.Anything, ident).Return(&domain.User{UserID: "u1", FullName: "Ada"}, nil)

	rr := httptest.NewRecorder()
	h.Sync(rr, withSession(jsonRequest(t, http.MethodPost, "/api/users/sync", ident), "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ada", decodeBody(t, rr)["fullName"])
}
