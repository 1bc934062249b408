package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/versflip/versflip/internal/dependencies/mocks"
	"github.com/versflip/versflip/internal/dependencies/random"
	"github.com/versflip/versflip/internal/services/auth"
	storagememory "github.com/versflip/versflip/internal/storage/memory"
)

type AuthMiddlewareSuite struct {
	suite.Suite
	authService *auth.Service
	token       string
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.authService = auth.New(storagememory.New(), clk, random.New(), auth.DefaultConfig())

	session, err := s.authService.CreateGuestSession(context.Background())
	s.Require().NoError(err)
	s.token = session.Token
}

// echoHandler records whether it ran and what session it saw
func (s *AuthMiddlewareSuite) serve(middleware func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, *auth.Session) {
	var seen *auth.Session
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder, seen
}

func (s *AuthMiddlewareSuite) TestAuthAcceptsBearerToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)

	recorder, seen := s.serve(Auth(s.authService), req)
	s.Equal(http.StatusOK, recorder.Code)
	s.Require().NotNil(seen)
	s.Equal(s.token, seen.Token)
}

func (s *AuthMiddlewareSuite) TestAuthAcceptsSessionCookie() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: s.token})

	recorder, seen := s.serve(Auth(s.authService), req)
	s.Equal(http.StatusOK, recorder.Code)
	s.NotNil(seen)
}

func (s *AuthMiddlewareSuite) TestAuthPrefersHeaderOverCookie() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.AddCookie(&http.Cookie{Name: "session", Value: "sess_stale"})

	recorder, _ := s.serve(Auth(s.authService), req)
	s.Equal(http.StatusOK, recorder.Code)
}

func (s *AuthMiddlewareSuite) TestAuthRejectsMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	recorder, seen := s.serve(Auth(s.authService), req)
	s.Equal(http.StatusUnauthorized, recorder.Code)
	s.Nil(seen)
}

func (s *AuthMiddlewareSuite) TestAuthRejectsUnknownToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sess_bogus")

	recorder, _ := s.serve(Auth(s.authService), req)
	s.Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *AuthMiddlewareSuite) TestOptionalAuthPassesWithoutToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	recorder, seen := s.serve(OptionalAuth(s.authService), req)
	s.Equal(http.StatusOK, recorder.Code)
	s.Nil(seen)
}

func (s *AuthMiddlewareSuite) TestOptionalAuthAttachesSessionWhenPresent() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)

	recorder, seen := s.serve(OptionalAuth(s.authService), req)
	s.Equal(http.StatusOK, recorder.Code)
	s.NotNil(seen)
}
