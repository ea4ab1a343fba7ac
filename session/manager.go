package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/cache"
	"github.com/grzegorzmaniak/posfee/helpers"
	"go.uber.org/zap"
)

const (
	DefaultCookieName     = "wcpos_ccf_session"
	DefaultCookiePath     = "/"
	DefaultCookieSecure   = true
	DefaultCookieHttpOnly = true
	DefaultTTL            = 48 * time.Hour
	DefaultKeyPrefix      = "session:"

	// IDLength is the length of a session ID, ids of any other length are rejected
	// before touching the cache.
	IDLength = 32

	contextKey = "posfee.session"
)

// CookieData describes the cookie that carries the (sealed) session ID.
type CookieData struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite

	// TTL is both the cookie max age and the cache expiration of the values.
	TTL time.Duration
}

// DefaultCookieData returns the cookie settings used when nothing is configured.
func DefaultCookieData() CookieData {
	return CookieData{
		Name:     DefaultCookieName,
		Path:     DefaultCookiePath,
		Secure:   DefaultCookieSecure,
		HttpOnly: DefaultCookieHttpOnly,
		SameSite: http.SameSiteLaxMode,
		TTL:      DefaultTTL,
	}
}

type Manager struct {
	Cache  *cache.Manager
	Cookie CookieData

	// Key seals the session ID inside the cookie (AES-256-GCM), a client can
	// neither read nor forge one.
	Key []byte

	// KeyPrefix namespaces session entries in a shared cache.
	KeyPrefix string
}

func (m *Manager) cookieName() string {
	return helpers.DefaultString(m.Cookie.Name, DefaultCookieName)
}

func (m *Manager) ttl() time.Duration {
	return helpers.Default(m.Cookie.TTL, DefaultTTL)
}

func (m *Manager) cacheKey(id string) string {
	return helpers.DefaultString(m.KeyPrefix, DefaultKeyPrefix) + id
}

// readID returns the session ID from the request cookie, or "" when there is no
// usable cookie (missing, tampered, sealed with an old key...).
func (m *Manager) readID(ctx *gin.Context) string {
	sealed, err := ctx.Cookie(m.cookieName())
	if err != nil || sealed == "" {
		return ""
	}

	id, err := helpers.Open(m.Key, sealed, m.cookieName())
	if err != nil {
		zap.L().Debug("Session cookie could not be opened", zap.Error(err))
		return ""
	}

	if len(id) != IDLength {
		return ""
	}
	return id
}

func (m *Manager) writeCookie(ctx *gin.Context, value string, maxAge int) {
	if m.Cookie.SameSite != 0 {
		ctx.SetSameSite(m.Cookie.SameSite)
	}
	ctx.SetCookie(
		m.cookieName(),
		value,
		maxAge,
		helpers.DefaultString(m.Cookie.Path, DefaultCookiePath),
		m.Cookie.Domain,
		m.Cookie.Secure,
		m.Cookie.HttpOnly,
	)
}

// Load returns the session of the request, creating (and issuing the cookie of)
// a new one when the request has none. An error means the store is unusable.
func (m *Manager) Load(ctx *gin.Context) (*Session, error) {
	if m.Cache == nil {
		return nil, fmt.Errorf("session manager has no cache")
	}

	c, err := m.Cache.GetCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get session cache: %w", err)
	}

	if id := m.readID(ctx); id != "" {
		payload, err := c.Get(ctx.Request.Context(), m.cacheKey(id))
		switch {
		case err == nil:
			s, decodeErr := decode(id, payload)
			if decodeErr == nil {
				return s, nil
			}
			zap.L().Warn("Discarding undecodable session", zap.Error(decodeErr))

		case cache.IsNotFound(err):
			zap.L().Debug("Session expired or unknown, starting a new one")

		default:
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	id, err := helpers.GenerateID(IDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	sealed, err := helpers.Seal(m.Key, id, m.cookieName())
	if err != nil {
		return nil, fmt.Errorf("failed to seal session id: %w", err)
	}

	// - Issued now, before any handler writes the body
	m.writeCookie(ctx, sealed, int(m.ttl().Seconds()))

	return newSession(id), nil
}

// Save writes the session values to the cache if anything changed.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil || !s.dirty {
		return nil
	}

	c, err := m.Cache.GetCache()
	if err != nil {
		return fmt.Errorf("failed to get session cache: %w", err)
	}

	payload, err := s.encode()
	if err != nil {
		return err
	}

	if err := c.Set(ctx, m.cacheKey(s.ID), payload, store.WithExpiration(m.ttl()), store.WithCost(1)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	m.Cache.Sync()

	s.dirty = false
	s.isNew = false
	return nil
}

// Destroy drops the session values and expires the cookie.
func (m *Manager) Destroy(ctx *gin.Context, s *Session) error {
	m.writeCookie(ctx, "", -1)
	if s == nil {
		return nil
	}

	c, err := m.Cache.GetCache()
	if err != nil {
		return fmt.Errorf("failed to get session cache: %w", err)
	}

	if err := c.Delete(ctx.Request.Context(), m.cacheKey(s.ID)); err != nil && !cache.IsNotFound(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.Cache.Sync()

	s.values = make(map[string]string)
	s.dirty = false
	return nil
}

// Middleware loads the session before the handler and saves it afterwards. When
// the store is down the request carries on without a session.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s, err := m.Load(ctx)
		if err != nil {
			zap.L().Error("Session unavailable", zap.Error(err))
			ctx.Next()
			return
		}

		ctx.Set(contextKey, s)
		ctx.Next()

		if err := m.Save(ctx.Request.Context(), s); err != nil {
			zap.L().Error("Failed to save session", zap.Error(err), zap.String("path", ctx.FullPath()))
		}
	}
}

// FromContext returns the session attached by Middleware, or nil.
func FromContext(ctx *gin.Context) *Session {
	value, ok := ctx.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := value.(*Session)
	return s
}
