package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/versflip/versflip/internal/api"
	"github.com/versflip/versflip/internal/api/apierr"
	"github.com/versflip/versflip/internal/api/response"
	"github.com/versflip/versflip/internal/dependencies/clock"
	"github.com/versflip/versflip/internal/dependencies/mocks"
	"github.com/versflip/versflip/internal/dependencies/random"
	sessionmemory "github.com/versflip/versflip/internal/session/memory"
	"github.com/versflip/versflip/internal/services/auth"
	"github.com/versflip/versflip/internal/services/plinko"
	"github.com/versflip/versflip/internal/services/wager"
	"github.com/versflip/versflip/internal/services/wallet"
	storagememory "github.com/versflip/versflip/internal/storage/memory"
	"github.com/versflip/versflip/internal/testutil"
)

type APISuite struct {
	suite.Suite
	server *httptest.Server
	random *mocks.MockRandom
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	storage := storagememory.New()
	sessions := sessionmemory.New()
	logger := testutil.NopLogger()

	// Real randomness for session tokens, mocked randomness for the chip
	// drop so wager outcomes are scriptable
	s.random = mocks.NewMockRandom()

	authService := auth.New(storage, clock.New(), random.New(), auth.DefaultConfig())
	walletService := wallet.New(storage, sessions, logger)
	wagerController := wager.NewController(walletService, plinko.New(s.random), logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     authService,
		WalletService:   walletService,
		WagerController: wagerController,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

// do sends a request with an optional bearer token and JSON body
func (s *APISuite) do(method, path, token string, body any) *http.Response {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) decode(resp *http.Response, target any) {
	defer func() { _ = resp.Body.Close() }()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

func (s *APISuite) decodeError(resp *http.Response) apierr.APIError {
	var wrapper apierr.ErrorResponse
	s.decode(resp, &wrapper)
	return wrapper.Error
}

func (s *APISuite) register(handle, password string) response.AuthResponse {
	resp := s.do(http.MethodPost, "/api/v1/accounts/register", "", map[string]string{
		"handle":   handle,
		"password": password,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var authResp response.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}

func (s *APISuite) guest() response.AuthResponse {
	resp := s.do(http.MethodPost, "/api/v1/sessions/guest", "", nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var authResp response.AuthResponse
	s.decode(resp, &authResp)
	return authResp
}

// Registration and login

func (s *APISuite) TestRegisterLoginAndGetMe() {
	registered := s.register("alice", "password123")
	s.NotEmpty(registered.SessionToken)
	s.Equal("alice", registered.Handle)
	s.False(registered.IsGuest)

	resp := s.do(http.MethodPost, "/api/v1/accounts/login", "", map[string]string{
		"handle":   "ALICE",
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var loggedIn response.AuthResponse
	s.decode(resp, &loggedIn)
	s.Equal(registered.AccountID, loggedIn.AccountID)

	resp = s.do(http.MethodGet, "/api/v1/accounts/me", loggedIn.SessionToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var account response.Account
	s.decode(resp, &account)
	s.Equal("alice", account.Handle)
	s.Equal(int64(1000), account.Balance)
}

func (s *APISuite) TestRegisterRejectsShortHandle() {
	resp := s.do(http.MethodPost, "/api/v1/accounts/register", "", map[string]string{
		"handle":   "al",
		"password": "password123",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidHandle, s.decodeError(resp).Code)
}

func (s *APISuite) TestRegisterRejectsDuplicateHandle() {
	s.register("alice", "password123")

	resp := s.do(http.MethodPost, "/api/v1/accounts/register", "", map[string]string{
		"handle":   "Alice",
		"password": "different456",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(apierr.CodeHandleTaken, s.decodeError(resp).Code)
}

func (s *APISuite) TestLoginRejectsWrongPassword() {
	s.register("alice", "password123")

	resp := s.do(http.MethodPost, "/api/v1/accounts/login", "", map[string]string{
		"handle":   "alice",
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(apierr.CodeInvalidCredentials, s.decodeError(resp).Code)
}

func (s *APISuite) TestRegisterRejectsMalformedBody() {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/accounts/register", bytes.NewBufferString("{not json"))
	s.Require().NoError(err)

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Code)
}

// Guest sessions

func (s *APISuite) TestGuestSessionStartsWithStandardGrant() {
	guest := s.guest()
	s.True(guest.IsGuest)
	s.Empty(guest.AccountID)

	resp := s.do(http.MethodGet, "/api/v1/wallet/balance", guest.SessionToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var balance response.BalanceResponse
	s.decode(resp, &balance)
	s.Equal(int64(1000), balance.Balance)
}

func (s *APISuite) TestGuestBalancesAreIsolated() {
	first := s.guest()
	second := s.guest()

	resp := s.do(http.MethodPost, "/api/v1/wager", first.SessionToken, map[string]any{
		"stake": 500,
		"risk":  "risky",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/v1/wallet/balance", second.SessionToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var balance response.BalanceResponse
	s.decode(resp, &balance)
	s.Equal(int64(1000), balance.Balance)
}

// Wagers

func (s *APISuite) TestPlaceWagerWin() {
	account := s.register("alice", "password123")
	s.random.QueueIntn(0, 1, 0, 1, 0, 1, 0, 1)

	resp := s.do(http.MethodPost, "/api/v1/wager", account.SessionToken, map[string]any{
		"stake": 100,
		"risk":  "risky",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result response.WagerResponse
	s.decode(resp, &result)
	s.Equal("risky", result.Risk)
	s.Equal(4, result.LandingSlot)
	s.Equal(int64(400), result.Payout)
	s.Equal(int64(300), result.Delta)
	s.Equal(int64(1300), result.NewBalance)
	s.Equal("Plinko chip landed in slot 5 at 4.00x. Path: L → R → L → R → L → R → L → R. Won 300 F$.", result.Message)
}

func (s *APISuite) TestPlaceWagerLoss() {
	account := s.register("alice", "password123")

	// Empty queue drops the chip into slot 0; risky pays nothing there
	resp := s.do(http.MethodPost, "/api/v1/wager", account.SessionToken, map[string]any{
		"stake": 100,
		"risk":  "risky",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result response.WagerResponse
	s.decode(resp, &result)
	s.Equal(0, result.LandingSlot)
	s.Equal(int64(-100), result.Delta)
	s.Equal(int64(900), result.NewBalance)
	s.Equal("Plinko chip landed in slot 1 at 0.00x. Path: L → L → L → L → L → L → L → L. Lost 100 F$.", result.Message)
}

func (s *APISuite) TestPlaceWagerAcceptsMixedCaseRisk() {
	account := s.register("alice", "password123")
	s.random.QueueIntn(0, 1, 0, 1, 0, 1, 0, 1)

	resp := s.do(http.MethodPost, "/api/v1/wager", account.SessionToken, map[string]any{
		"stake": 100,
		"risk":  "RISKY",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result response.WagerResponse
	s.decode(resp, &result)
	s.Equal("risky", result.Risk)
	s.Equal(4.00, result.Multiplier)
}

func (s *APISuite) TestPlaceWagerRejectsZeroStake() {
	account := s.register("alice", "password123")

	resp := s.do(http.MethodPost, "/api/v1/wager", account.SessionToken, map[string]any{
		"stake": 0,
		"risk":  "balanced",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeNonPositiveStake, s.decodeError(resp).Code)
}

func (s *APISuite) TestPlaceWagerRejectsStakeOverBalance() {
	account := s.register("alice", "password123")

	resp := s.do(http.MethodPost, "/api/v1/wager", account.SessionToken, map[string]any{
		"stake": 1001,
		"risk":  "balanced",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(apierr.CodeInsufficientBalance, s.decodeError(resp).Code)

	resp = s.do(http.MethodGet, "/api/v1/wallet/balance", account.SessionToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var balance response.BalanceResponse
	s.decode(resp, &balance)
	s.Equal(int64(1000), balance.Balance)
}

func (s *APISuite) TestPlaceWagerRequiresAuth() {
	resp := s.do(http.MethodPost, "/api/v1/wager", "", map[string]any{
		"stake": 100,
		"risk":  "balanced",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(apierr.CodeUnauthorized, s.decodeError(resp).Code)
}

// Identity linking

func (s *APISuite) TestLinkIdentityCreatesAccount() {
	resp := s.do(http.MethodPost, "/api/v1/identity/link", "", map[string]string{
		"secret":       "robo-secret-0123456789abcdef",
		"display_name": "RoboAlice",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var authResp response.AuthResponse
	s.decode(resp, &authResp)
	s.Equal("roboalice", authResp.Handle)
	s.False(authResp.IsGuest)

	resp = s.do(http.MethodGet, "/api/v1/accounts/me", authResp.SessionToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var account response.Account
	s.decode(resp, &account)
	s.Equal("RoboAlice", account.LinkedDisplayName)
	s.Equal("https://www.roblox.com/users/profile?username=RoboAlice", account.LinkedProfileRef)
}

func (s *APISuite) TestLinkIdentityUnknownSecretWithoutName() {
	resp := s.do(http.MethodPost, "/api/v1/identity/link", "", map[string]string{
		"secret": "robo-secret-0123456789abcdef",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(apierr.CodeUnlinkedIdentity, s.decodeError(resp).Code)
}

func (s *APISuite) TestLinkIdentityRejectsShortSecret() {
	resp := s.do(http.MethodPost, "/api/v1/identity/link", "", map[string]string{
		"secret":       "short",
		"display_name": "RoboAlice",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidIdentitySecret, s.decodeError(resp).Code)
}

// Session lifecycle

func (s *APISuite) TestLogoutInvalidatesSession() {
	account := s.register("alice", "password123")

	resp := s.do(http.MethodPost, "/api/v1/sessions/logout", account.SessionToken, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/wallet/balance", account.SessionToken, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

// Health

func (s *APISuite) TestHealthCheck() {
	resp := s.do(http.MethodGet, "/api/v1/health", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var health map[string]string
	s.decode(resp, &health)
	s.Equal("ok", health["status"])
}
