package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-events-api/internal/application/clubpin"
	"github.com/campus-events-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClubPinSvc struct{ mock.Mock }

func (m *mockClubPinSvc) Signup(ctx context.Context, req clubpin.SignupRequest) (*clubpin.SignupResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*clubpin.SignupResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClubPinSvc) SendPin(ctx context.Context, req clubpin.SendPinRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockClubPinSvc) Verify(ctx context.Context, req clubpin.VerifyRequest) (*domain.PendingClub, error) {
	args := m.Called(ctx, req)
	if p, _ := args.Get(0).(*domain.PendingClub); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func pinMiss() *clubpin.PinNotFoundError {
	return &clubpin.PinNotFoundError{Debug: clubpin.PinDebug{
		Email:      "chess@campus.edu",
		IssuedPins: []clubpin.IssuedPin{{Pin: "12345678", Status: domain.PendingClubStatusPending}},
	}}
}

func TestVerifyClub_MissWithDebug(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, true)
	req := clubpin.VerifyRequest{ClubEmail: "chess@campus.edu", Pin: "00000000"}
	svc.On("Verify", mock.Anything, req).Return(nil, pinMiss())

	rr := httptest.NewRecorder()
	h.VerifyClub(rr, jsonRequest(t, http.MethodPost, "/api/verify-club", req))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no pending club matches this email and PIN", body["error"])
	debug, ok := body["debug"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "chess@campus.edu", debug["email"])
	assert.Len(t, debug["issuedPins"], 1)
}

func TestVerifyClub_MissWithoutDebug(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)
	req := clubpin.VerifyRequest{ClubEmail: "chess@campus.edu", Pin: "00000000"}
	svc.On("Verify", mock.Anything, req).Return(nil, pinMiss())

	rr := httptest.NewRecorder()
	h.VerifyClub(rr, jsonRequest(t, http.MethodPost, "/api/verify-club", req))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, decodeBody(t, rr), "debug")
}

func TestVerifyClub_Expired(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, true)
	req := clubpin.VerifyRequest{ClubEmail: "chess@campus.edu", Pin: "12345678"}
	svc.On("Verify", mock.Anything, req).Return(nil, clubpin.ErrPinExpired)

	rr := httptest.NewRecorder()
	h.VerifyClub(rr, jsonRequest(t, http.MethodPost, "/api/verify-club", req))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "PIN has expired, register the club again", body["error"])
	assert.NotContains(t, body, "debug")
}

func TestVerifyClub_Success(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, true)
	req := clubpin.VerifyRequest{ClubEmail: "chess@campus.edu", Pin: "12345678"}
	svc.On("Verify", mock.Anything, req).Return(&domain.PendingClub{PendingClubID: "p1", ClubName: "Chess"}, nil)

	rr := httptest.NewRecorder()
	h.VerifyClub(rr, jsonRequest(t, http.MethodPost, "/api/verify-club", req))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	pending, ok := body["pendingClub"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "p1", pending["id"])
}

func TestSendClubPin_FailureShape(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)
	req := clubpin.SendPinRequest{Email: "chess@campus.edu", ClubName: "Chess", Pin: "12345678"}
	svc.On("SendPin", mock.Anything, req).Return(false, errors.New("resend: 502 bad gateway"))

	rr := httptest.NewRecorder()
	h.SendPin(rr, jsonRequest(t, http.MethodPost, "/api/send-club-pin", req))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "resend: 502 bad gateway", body["error"])
}

func TestSendClubPin_InvalidPin(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)

	rr := httptest.NewRecorder()
	h.SendPin(rr, jsonRequest(t, http.MethodPost, "/api/send-club-pin",
		clubpin.SendPinRequest{Email: "chess@campus.edu", ClubName: "Chess", Pin: "12ab"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["success"])
	svc.AssertNotCalled(t, "SendPin", mock.Anything, mock.Anything)
}

func TestSendClubPin_Sent(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)
	req := clubpin.SendPinRequest{Email: "chess@campus.edu", ClubName: "Chess", Pin: "12345678"}
	svc.On("SendPin", mock.Anything, req).Return(true, nil)

	rr := httptest.NewRecorder()
	h.SendPin(rr, jsonRequest(t, http.MethodPost, "/api/send-club-pin", req))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "PIN sent", body["message"])
}

func TestClubSignup_HidesPinWhenMailed(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, true)
	req := clubpin.SignupRequest{UserID: "u1", ClubName: "Chess", Email: "chess@campus.edu"}
	svc.On("Signup", mock.Anything, req).Return(&clubpin.SignupResult{
		Pending:   &domain.PendingClub{PendingClubID: "p1", Pin: "12345678"},
		EmailSent: true,
	}, nil)

	rr := httptest.NewRecorder()
	h.Signup(rr, jsonRequest(t, http.MethodPost, "/api/club-signup", req))

	assert.Equal(t, http.StatusCreated, rr.Code)
	pending := decodeBody(t, rr)["pendingClub"].(map[string]interface{})
	assert.Equal(t, "", pending["pin"])
}

func TestClubSignup_ShowsPinInDebugWithoutMail(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, true)
	req := clubpin.SignupRequest{UserID: "u1", ClubName: "Chess", Email: "chess@campus.edu"}
	svc.On("Signup", mock.Anything, req).Return(&clubpin.SignupResult{
		Pending: &domain.PendingClub{PendingClubID: "p1", Pin: "12345678"},
	}, nil)

	rr := httptest.NewRecorder()
	h.Signup(rr, jsonRequest(t, http.MethodPost, "/api/club-signup", req))

	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "PIN generated (email not configured)", body["message"])
	assert.Equal(t, "12345678", body["pendingClub"].(map[string]interface{})["pin"])
}

func TestSendClubPin_RejectsMultilineClubName(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)

	rr := httptest.NewRecorder()
	h.SendPin(rr, jsonRequest(t, http.MethodPost, "/api/send-club-pin",
		clubpin.SendPinRequest{Email: "chess@campus.edu", ClubName: "Chess\r\nBcc: victim@evil.test", Pin: "12345678"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["error"], "singleline")
	svc.AssertNotCalled(t, "SendPin", mock.Anything, mock.Anything)
}

func TestClubSignup_RejectsMultilineClubName(t *testing.T) {
	svc := &mockClubPinSvc{}
	h := NewClubPinHandler(svc, false)

	rr := httptest.NewRecorder()
	h.Signup(rr, jsonRequest(t, http.MethodPost, "/api/club-signup",
		clubpin.SignupRequest{UserID: "u1", ClubName: "Chess\nX-Evil: 1", Email: "chess@campus.edu"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}
