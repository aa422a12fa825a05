package medhub

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes sessions slightly before the access token actually
// expires, covering clock drift and in-flight request time.
const expirySkew = 60 * time.Second

// Session holds the portal bearer token in memory and implements
// TokenProvider. The composite token embeds a Cognito access token whose
// exp claim tells us when a re-login is due; the signature is the portal's
// problem, not ours, so the claim is read unverified.
type Session struct {
	mu     sync.RWMutex
	bearer string
	now    func() time.Time
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Set stores a bearer token obtained from login.
func (s *Session) Set(bearer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = bearer
}

// Clear drops the stored token.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = ""
}

// Token returns the bearer token, or an error when there is no session or
// the access token has expired.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bearer == "" {
		return "", errors.New("not logged in")
	}
	if !s.valid() {
		return "", errors.New("session expired")
	}
	return s.bearer, nil
}

// Valid reports whether a usable session is held.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bearer != "" && s.valid()
}

// valid checks the access-token exp claim. Tokens that do not parse as JWTs
// are assumed usable; the portal will reject them if not.
func (s *Session) valid() bool {
	access := accessTokenPart(s.bearer)
	if access == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return s.now().Add(expirySkew).Before(exp.Time)
}

// accessTokenPart extracts the Cognito access token from the composite
// "Bearer <access>-id-token-<id>" form.
func accessTokenPart(bearer string) string {
	token := strings.TrimPrefix(bearer, "Bearer ")
	access, _, found := strings.Cut(token, "-id-token-")
	if !found {
		return ""
	}
	return access
}
