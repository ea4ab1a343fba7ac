package core

import (
	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/session"
	"github.com/grzegorzmaniak/posfee/token"
)

type Handler[BaseRoute any] struct {
	BaseRoute     BaseRoute
	Context       *gin.Context
	Session       *session.Session
	HasSession    bool
	Authenticator *token.Authenticator
}

// Store returns the session as the authenticator's store. Without a session it
// is a nil interface, never a typed nil, so the authenticator sees "no store".
func (h *Handler[BaseRoute]) Store() token.SessionStore {
	return sessionStore(h.Session)
}

// SecurityToken generates the token for the current session, "" without one.
func (h *Handler[BaseRoute]) SecurityToken() string {
	if h.Authenticator == nil {
		return ""
	}
	return h.Authenticator.Generate(h.Store())
}

func sessionStore(s *session.Session) token.SessionStore {
	if s == nil {
		return nil
	}
	return s
}

type APIConfiguration struct {
	// SessionRequired rejects the request when no session could be loaded.
	// The fee endpoints leave it off, a missing session fails verification instead.
	SessionRequired bool

	// RequireToken verifies the security token carried by the input, which
	// must implement TokenCarrier.
	RequireToken bool

	// ManualResponse is a flag to indicate if the response should be handled manually
	// defaults to false
	ManualResponse bool
}
