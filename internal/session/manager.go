// Package session keeps visitor state in a signed, encrypted cookie.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	defaultCookieName  = "sdc_session"
	defaultCookiePath  = "/"
	defaultLifetime    = 30 * 24 * time.Hour
	defaultIdleTimeout = 7 * 24 * time.Hour
	// refreshAfter is how stale LastActive may get before a read-only visit rewrites the cookie.
	refreshAfter = time.Hour
)

// ErrExpired indicates the stored session is no longer valid due to idle or absolute expiry.
var ErrExpired = errors.New("session expired")

// ErrInvalidConfig indicates the manager was initialised with missing or invalid options.
var ErrInvalidConfig = errors.New("session: invalid config")

// Data represents the full persisted session payload.
type Data struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
	Locale     string    `json:"locale,omitempty"`
	CSRFToken  string    `json:"csrfToken,omitempty"`
}

// Session holds mutable state for the current request lifecycle.
type Session struct {
	data  Data
	dirty bool
}

// Config controls cookie encoding and lifecycle limits.
type Config struct {
	CookieName   string
	HashKey      []byte
	BlockKey     []byte
	CookiePath   string
	CookieSecure bool
	IdleTimeout  time.Duration
	Lifetime     time.Duration
	Now          func() time.Time
}

// Manager decodes and persists sessions via securecookie.
type Manager struct {
	cfg   Config
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewManager constructs a Manager. Empty keys are generated for the life of the process.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.HashKey) == 0 {
		cfg.HashKey = securecookie.GenerateRandomKey(32)
	}
	if len(cfg.BlockKey) == 0 {
		cfg.BlockKey = securecookie.GenerateRandomKey(32)
	}
	if cfg.HashKey == nil || cfg.BlockKey == nil {
		return nil, fmt.Errorf("%w: unable to generate keys", ErrInvalidConfig)
	}
	switch len(cfg.BlockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: block key must be 16, 24 or 32 bytes", ErrInvalidConfig)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = defaultCookiePath
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.Lifetime.Seconds()))

	return &Manager{cfg: cfg, codec: codec, now: nowFn}, nil
}

// Load retrieves the session from the request. A missing or undecodable cookie yields a
// fresh session; an expired one returns ErrExpired.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return m.New(), nil
	}
	var stored Data
	if err := m.codec.Decode(m.cfg.CookieName, cookie.Value, &stored); err != nil {
		return m.New(), nil
	}
	if stored.ID == "" {
		return m.New(), nil
	}
	sess := &Session{data: stored}
	now := m.now()
	if m.isExpired(sess, now) {
		return nil, ErrExpired
	}
	if now.Sub(stored.LastActive) > refreshAfter {
		sess.dirty = true
	}
	return sess, nil
}

// New returns a pristine session with generated identifiers.
func (m *Manager) New() *Session {
	now := m.now().UTC()
	return &Session{
		data: Data{
			ID:         mustGenerateToken(24),
			CreatedAt:  now,
			LastActive: now,
			ExpiresAt:  now.Add(m.cfg.Lifetime),
			CSRFToken:  mustGenerateToken(32),
		},
		dirty: true,
	}
}

// Save writes the session back to the response as a cookie.
func (m *Manager) Save(w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return errors.New("session: nil session")
	}
	sess.Touch(m.now())
	encoded, err := m.codec.Encode(m.cfg.CookieName, sess.data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	cookie := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     m.cfg.CookiePath,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if expiry := sess.data.ExpiresAt.UTC(); !expiry.IsZero() {
		cookie.Expires = expiry
		if remaining := expiry.Sub(m.now()); remaining > 0 {
			cookie.MaxAge = int(remaining.Round(time.Second).Seconds())
		} else {
			cookie.MaxAge = -1
		}
	}
	http.SetCookie(w, cookie)
	sess.dirty = false
	return nil
}

// Destroy invalidates the session cookie immediately.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Path:     m.cfg.CookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) isExpired(sess *Session, now time.Time) bool {
	now = now.UTC()
	if !sess.data.ExpiresAt.IsZero() && now.After(sess.data.ExpiresAt.UTC()) {
		return true
	}
	last := sess.data.LastActive
	if last.IsZero() {
		last = sess.data.CreatedAt
	}
	return !last.IsZero() && now.Sub(last) > m.cfg.IdleTimeout
}

// ID returns the stable session identifier.
func (s *Session) ID() string { return s.data.ID }

// CreatedAt returns the session creation timestamp.
func (s *Session) CreatedAt() time.Time { return s.data.CreatedAt }

// Locale returns the visitor's chosen language, if any.
func (s *Session) Locale() string { return s.data.Locale }

// SetLocale records the visitor's language.
func (s *Session) SetLocale(lang string) {
	if s.data.Locale == lang {
		return
	}
	s.data.Locale = lang
	s.dirty = true
}

// CSRFToken returns the stored CSRF token, generating one on demand.
func (s *Session) CSRFToken() string {
	if s.data.CSRFToken == "" {
		s.data.CSRFToken = mustGenerateToken(32)
		s.dirty = true
	}
	return s.data.CSRFToken
}

// Dirty reports whether the session changed during this request.
func (s *Session) Dirty() bool { return s.dirty }

// Touch refreshes the last-activity timestamp.
func (s *Session) Touch(now time.Time) {
	s.data.LastActive = now.UTC()
}

func mustGenerateToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: generate token: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
