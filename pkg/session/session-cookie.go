package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config is used to provide settings to NewCodec.
type Config struct {
	Secret     []byte
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Codec stores session states in signed cookies. The signature prevents tampering, not reading: the cookie's contents
// are visible to the browser.
type Codec struct {
	secret []byte
	name   string
	maxAge time.Duration
	secure bool
}

type claims struct {
	Identity *Identity `json:"idn,omitempty"`
	Flashes  []string  `json:"fl,omitempty"`
	jwt.RegisteredClaims
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	if cfg.CookieName == "" {
		return nil, errors.New("session cookie name is required")
	}
	if cfg.MaxAge <= 0 {
		return nil, errors.New("session max age must be positive")
	}
	return &Codec{secret: cfg.Secret, name: cfg.CookieName, maxAge: cfg.MaxAge, secure: cfg.Secure}, nil
}

// Load reads the request's session. Missing, forged or expired cookies all result in a fresh, empty state.
func (c *Codec) Load(request *http.Request) *State {
	cookie, err := request.Cookie(c.name)
	if err != nil {
		return &State{}
	}

	var parsed claims
	token, err := jwt.ParseWithClaims(cookie.Value, &parsed, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return &State{}
	}

	return &State{identity: parsed.Identity, flashes: parsed.Flashes}
}

// Save writes the state as a cookie header; empty states expire the cookie instead.
func (c *Codec) Save(writer http.ResponseWriter, state *State) error {
	if state.empty() {
		http.SetCookie(writer, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	var now = time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Identity: state.identity,
		Flashes:  state.flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}).SignedString(c.secret)
	if err != nil {
		return err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     c.name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
