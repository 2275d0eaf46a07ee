// Package session implements the server-trusted, client-held session: a
// small string key-value bag signed with HMAC-SHA256 and carried in a
// cookie. The signing and expiry are handled by the JWT library; this
// package only defines the bag and the cookie plumbing around it.
package session

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "carworth_session"

// KeyUserID is the only key the authentication core reads from the bag.
const KeyUserID = "userId"

// MaxAge is the fixed session lifetime, enforced by the exp claim.
const MaxAge = 7 * 24 * time.Hour

// Values is the session's key-value bag. A nil or empty bag means "no
// session". Values round-trip through the signed cookie as strings.
type Values map[string]string

// Get returns the value for key, or "" when absent.
func (v Values) Get(key string) string {
	return v[key]
}

// Set stores a value under key.
func (v Values) Set(key, value string) {
	v[key] = value
}

// Delete removes key from the bag.
func (v Values) Delete(key string) {
	delete(v, key)
}

// SetUserID stores the signed-in user's id under KeyUserID.
func (v Values) SetUserID(id int64) {
	v[KeyUserID] = strconv.FormatInt(id, 10)
}

// UserID returns the user id stored in the bag. ok is false when the key is
// absent or does not parse as an id.
func (v Values) UserID() (int64, bool) {
	raw, ok := v[KeyUserID]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Manager signs session bags into cookies and reads them back. It is
// stateless and safe for concurrent use.
type Manager struct {
	secret []byte
	secure bool
}

// NewManager creates a session Manager. secret is the HMAC signing key;
// secure controls the cookie's Secure attribute.
func NewManager(secret string, secure bool) *Manager {
	return &Manager{secret: []byte(secret), secure: secure}
}

// Read returns the session bag carried by the request. A missing, tampered,
// malformed, or expired cookie all yield an empty bag rather than an error:
// an unverifiable session is simply no session.
func (m *Manager) Read(r *http.Request) Values {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Values{}
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Values{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Values{}
	}
	bag, ok := claims["sess"].(map[string]any)
	if !ok {
		return Values{}
	}

	values := make(Values, len(bag))
	for k, raw := range bag {
		if s, ok := raw.(string); ok {
			values[k] = s
		}
	}
	return values
}

// Write signs the bag and sets it as the session cookie on the response.
func (m *Manager) Write(w http.ResponseWriter, values Values) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"sess": map[string]string(values),
		"iat":  now.Unix(),
		"exp":  now.Add(MaxAge).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(MaxAge.Seconds()),
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
