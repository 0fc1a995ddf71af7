// Package session keeps session state in a signed cookie.
// The cookie value is HS256 JWT: "sub" holds the username and "fl" pending flash messages.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultCookieName    = "session"
	defaultSigningMethod = "HS256"
	defaultTTL           = 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
	Flashes []string `json:"fl,omitempty"`
}

// Session manager config with sensible defaults
type Config struct {
	// Secret key to sign cookie payload
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// If not set than defaults are used
	CookieName string
	TTL        time.Duration

	// Send cookie over https only
	Secure bool
}

type Manager struct {
	key        string
	alg        jwt.SigningMethod
	cookieName string
	ttl        time.Duration
	secure     bool

	now func() time.Time
}

func New(cfg Config) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method %q", cfg.Alg)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultTTL
	}

	return &Manager{
		key:        cfg.SecretKey,
		alg:        alg,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

// Load session from request cookie.
// Missing, tampered or expired cookie gives empty anonymous state.
func (m *Manager) Load(r *http.Request) *State {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return &State{}
	}

	st, err := m.Decode(c.Value)
	if err != nil {
		return &State{}
	}

	return st
}

// Save writes cookie if state changed during the request.
// Has to be called before response headers are written.
func (m *Manager) Save(w http.ResponseWriter, st *State) error {
	if !st.Changed() {
		return nil
	}

	if st.empty() {
		http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
		return nil
	}

	value, expiresAt, err := m.Encode(st)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(value, int(m.ttl.Seconds()), expiresAt))
	return nil
}

func (m *Manager) Encode(st *State) (string, time.Time, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   st.username,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Flashes: st.flashes,
		},
	)

	value, err := token.SignedString([]byte(m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error while signing session. Err: %w", err)
	}

	return value, expiresAt, nil
}

// Parse and validate session value
func (m *Manager) Decode(value string) (*State, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("error while parsing or validating session. Err: %w", err)
	}

	return &State{username: claims.Subject, flashes: claims.Flashes}, nil
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
