// Package token issues and checks the security token that gates fee changes.
//
// The token proves a request comes from the browser session that rendered the
// checkout page, without relying on a logged-in user (POS checkouts often run
// under a shared or anonymous identity). It is
//
//	hex( HMAC-SHA256( serverSecret, sessionSecret + decimal(unix/3600) ) )
//
// where sessionSecret is a random value kept in the session under SecretKey.
// Tokens for the current hour and the hour before are accepted.
package token

import (
	"strconv"
	"time"

	"github.com/grzegorzmaniak/posfee/helpers"
	"go.uber.org/zap"
)

const (
	// SecretKey is the session key the per-session secret is stored under.
	SecretKey = "wcpos_ccf_token"

	// SecretLength is the length of a generated session secret.
	SecretLength = 32

	// WindowSize is the width of one time window.
	WindowSize = time.Hour
)

// SessionStore is the one capability the authenticator needs from a session.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

type Option func(*Authenticator)

// WithClock replaces the wall clock, tests use it to move across windows.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// WithSecretGenerator replaces the random session secret source.
func WithSecretGenerator(generate func(length int) (string, error)) Option {
	return func(a *Authenticator) {
		a.generateSecret = generate
	}
}

type Authenticator struct {
	serverSecret   []byte
	now            func() time.Time
	generateSecret func(length int) (string, error)
}

// New builds an authenticator keyed by the server-wide secret. An empty secret
// is accepted but every Generate returns "" and every Verify rejects.
func New(serverSecret []byte, opts ...Option) *Authenticator {
	a := &Authenticator{
		serverSecret:   append([]byte(nil), serverSecret...),
		now:            time.Now,
		generateSecret: helpers.GenerateID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Window returns the index of the time window t falls in.
func Window(t time.Time) int64 {
	unix := t.Unix()
	size := int64(WindowSize / time.Second)
	// - floor, not truncation, for the (theoretical) pre-1970 clock
	if unix < 0 && unix%size != 0 {
		return unix/size - 1
	}
	return unix / size
}

// Generate returns the token for the current window, creating the session
// secret on first use. A nil store (or any failure) yields "", which the
// caller treats as "unauthenticated".
func (a *Authenticator) Generate(store SessionStore) string {
	if store == nil {
		return ""
	}

	secret, ok := store.Get(SecretKey)
	if !ok || secret == "" {
		generated, err := a.generateSecret(SecretLength)
		if err != nil || generated == "" {
			zap.L().Error("token: failed to generate session secret", zap.Error(err))
			return ""
		}
		store.Set(SecretKey, generated)
		secret = generated
	}

	token, err := a.compute(secret, Window(a.now()))
	if err != nil {
		zap.L().Error("token: failed to compute token", zap.Error(err))
		return ""
	}
	return token
}

// Verify reports whether presented matches the token of the current or the
// previous window for the session's secret. It never writes to the store.
func (a *Authenticator) Verify(store SessionStore, presented string) bool {
	if presented == "" || store == nil {
		return false
	}

	secret, ok := store.Get(SecretKey)
	if !ok || secret == "" {
		return false
	}

	window := Window(a.now())
	current, err := a.compute(secret, window)
	if err != nil {
		return false
	}
	previous, err := a.compute(secret, window-1)
	if err != nil {
		return false
	}

	// - both comparisons always run
	matchesCurrent := helpers.EqualHex(current, presented)
	matchesPrevious := helpers.EqualHex(previous, presented)
	return matchesCurrent || matchesPrevious
}

// Expected returns the tokens Verify would accept right now for a given
// session secret, current window first. Used by support tooling.
func (a *Authenticator) Expected(sessionSecret string) (current string, previous string, err error) {
	window := Window(a.now())
	if current, err = a.compute(sessionSecret, window); err != nil {
		return "", "", err
	}
	if previous, err = a.compute(sessionSecret, window-1); err != nil {
		return "", "", err
	}
	return current, previous, nil
}

func (a *Authenticator) compute(sessionSecret string, window int64) (string, error) {
	message := sessionSecret + strconv.FormatInt(window, 10)
	return helpers.SignHex([]byte(message), a.serverSecret)
}
