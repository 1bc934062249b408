package auth

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/versflip/versflip/internal/dependencies/clock"
	"github.com/versflip/versflip/internal/dependencies/random"
	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/storage"
)

// Errors
var (
	ErrInvalidHandle         = errors.New("handle must be at least 3 characters")
	ErrInvalidPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidSession        = errors.New("invalid or expired session")
	ErrInvalidIdentitySecret = errors.New("identity secret is too short")
	ErrUnlinkedIdentity      = errors.New("no account linked to this identity")
)

// MinPasswordLength is the minimum password length for registration, in characters
const MinPasswordLength = 6

// minIdentitySecretLength guards against obviously bogus third-party secrets
const minIdentitySecretLength = 20

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Session represents an authenticated or anonymous client session
type Session struct {
	Token     string
	SessionID model.SessionID // keys the anonymous balance for guest sessions
	AccountID model.AccountID // empty for guest sessions
	Handle    string          // empty for guest sessions
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Identity returns the identity context this session resolves to
func (s *Session) Identity() model.IdentityContext {
	if s.AccountID != "" {
		return model.AccountIdentity(s.AccountID)
	}
	return model.AnonymousIdentity(s.SessionID)
}

// IsGuest reports whether the session has no durable account behind it
func (s *Session) IsGuest() bool {
	return s.AccountID == ""
}

// Service handles account registration, credential checks, identity
// linking and session management. Raw credentials stop here; the rest of
// the core only ever sees an IdentityContext.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		random:          random,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuestSession opens an anonymous session. Its balance lives in the
// session store and starts at the standard grant on first use.
func (s *Service) CreateGuestSession(ctx context.Context) (*Session, error) {
	return s.createSession(model.SessionID("anon_"+s.random.String(24, tokenAlphabet)), "", "")
}

// Register creates a new account with the starting balance and opens a
// session for it
func (s *Service) Register(ctx context.Context, handle, password string) (*Session, error) {
	normalized := model.NormalizeHandle(handle)
	if utf8.RuneCountInString(normalized) < model.MinHandleLength {
		return nil, ErrInvalidHandle
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:         model.AccountID(uuid.NewString()),
		Handle:     normalized,
		SecretHash: string(hash),
		Balance:    model.StartingBalance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createSessionForAccount(account)
}

// Login authenticates against a stored credential hash and opens a session
func (s *Service) Login(ctx context.Context, handle, password string) (*Session, error) {
	account, err := s.storage.GetAccountByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSessionForAccount(account)
}

// LinkThirdParty logs in via a third-party identity secret, linking or
// creating an account as needed.
//
// The stored secret is one-way hashed, so matching is a bcrypt comparison
// against every linked account in turn, an O(n) scan that keeps the
// secrets unlinkable at rest. When no account matches, displayName
// selects (or names) the account to link; profileRef is display metadata
// supplied by the calling adapter.
func (s *Service) LinkThirdParty(ctx context.Context, rawSecret, displayName, profileRef string) (*Session, error) {
	if len(rawSecret) < minIdentitySecretLength {
		return nil, ErrInvalidIdentitySecret
	}

	linked, err := s.storage.LinkedAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range linked {
		if bcrypt.CompareHashAndPassword([]byte(account.Linked.SecretHash), []byte(rawSecret)) != nil {
			continue
		}
		// Known identity; refresh display metadata when offered
		if displayName != "" {
			link := model.LinkedIdentity{
				SecretHash:  account.Linked.SecretHash,
				DisplayName: displayName,
				ProfileRef:  profileRef,
			}
			if err := s.storage.UpdateLinkedIdentity(ctx, account.ID, link); err != nil {
				return nil, err
			}
		}
		return s.createSessionForAccount(account)
	}

	if displayName == "" {
		return nil, ErrUnlinkedIdentity
	}

	normalized := model.NormalizeHandle(displayName)
	if utf8.RuneCountInString(normalized) < model.MinHandleLength {
		return nil, ErrInvalidHandle
	}

	secretHash, err := bcrypt.GenerateFromPassword([]byte(rawSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	link := model.LinkedIdentity{
		SecretHash:  string(secretHash),
		DisplayName: displayName,
		ProfileRef:  profileRef,
	}

	// Link onto an existing account with the same handle if there is one
	account, err := s.storage.GetAccountByHandle(ctx, normalized)
	if err == nil {
		if err := s.storage.UpdateLinkedIdentity(ctx, account.ID, link); err != nil {
			return nil, err
		}
		return s.createSessionForAccount(account)
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	// Fresh account: an unguessable throwaway password keeps the handle
	// unusable for password login until the owner sets one
	throwaway, err := bcrypt.GenerateFromPassword([]byte(s.random.String(32, tokenAlphabet)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account = &model.Account{
		ID:         model.AccountID(uuid.NewString()),
		Handle:     normalized,
		SecretHash: string(throwaway),
		Balance:    model.StartingBalance,
		Linked:     &link,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createSessionForAccount(account)
}

// Account loads the durable account behind a session
func (s *Service) Account(ctx context.Context, session *Session) (*model.Account, error) {
	if session.IsGuest() {
		return nil, model.ErrAccountNotFound
	}
	return s.storage.GetAccount(ctx, session.AccountID)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) createSessionForAccount(account *model.Account) (*Session, error) {
	return s.createSession("", account.ID, account.Handle)
}

func (s *Service) createSession(sessionID model.SessionID, accountID model.AccountID, handle string) (*Session, error) {
	token := "sess_" + s.random.String(32, tokenAlphabet)
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		SessionID: sessionID,
		AccountID: accountID,
		Handle:    handle,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}
