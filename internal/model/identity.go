package model

// SessionID identifies a client session; anonymous balances are keyed by it
type SessionID string

// IdentityContext names the single balance source active for a request:
// either a durable account or an anonymous session, never both.
// Every core call takes one explicitly; there is no ambient lookup.
type IdentityContext struct {
	accountID AccountID
	sessionID SessionID
}

// AccountIdentity creates an identity context backed by a durable account
func AccountIdentity(id AccountID) IdentityContext {
	return IdentityContext{accountID: id}
}

// AnonymousIdentity creates an identity context backed by a session balance
func AnonymousIdentity(id SessionID) IdentityContext {
	return IdentityContext{sessionID: id}
}

// IsAccount reports whether the context carries a resolved account
func (c IdentityContext) IsAccount() bool {
	return c.accountID != ""
}

// AccountID returns the account identifier; empty for anonymous contexts
func (c IdentityContext) AccountID() AccountID {
	return c.accountID
}

// SessionID returns the session identifier; empty for account contexts
func (c IdentityContext) SessionID() SessionID {
	return c.sessionID
}

// Key returns a stable string key for per-identity serialization
func (c IdentityContext) Key() string {
	if c.IsAccount() {
		return "account:" + string(c.accountID)
	}
	return "session:" + string(c.sessionID)
}
