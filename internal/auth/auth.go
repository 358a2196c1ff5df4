package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	principalCtxKey   = ctxKey("principal")
	sessionCtxKey     = ctxKey("session")
)

// Principal is the authenticated identity attached to a request before any
// role resolution has happened.
type Principal struct {
	AuthID string `json:"auth_id"`
	Email  string `json:"email"`
}

// Session is the persisted login state. Role is a display convenience for
// restoring the UI after a reload; authorization always re-resolves roles
// against the database.
type Session struct {
	AuthID string `json:"auth_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SessionStore abstracts where the session lives so tests can swap in a
// fake and a deployment can move to server-side sessions without touching
// the handlers.
type SessionStore interface {
	Get(r *http.Request) (Session, bool)
	Set(w http.ResponseWriter, s Session)
	Clear(w http.ResponseWriter)
}

// CookieStore signs the JSON session with HMAC-SHA256 and keeps it in a
// http-only cookie, value form "payload.sig".
type CookieStore struct {
	Secret []byte
	TTL    time.Duration
}

func NewCookieStore(secret string) *CookieStore {
	return &CookieStore{Secret: []byte(secret), TTL: 14 * 24 * time.Hour}
}

func (c *CookieStore) sign(payload string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c *CookieStore) Set(w http.ResponseWriter, s Session) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + c.sign(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(c.TTL),
	})
}

func (c *CookieStore) Get(r *http.Request) (Session, bool) {
	ck, err := r.Cookie(sessionCookieName)
	if err != nil || ck.Value == "" {
		return Session{}, false
	}
	parts := strings.Split(ck.Value, ".")
	if len(parts) != 2 {
		return Session{}, false
	}
	payload, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return Session{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.AuthID == "" {
		return Session{}, false
	}
	return s, true
}

func (c *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext extracts the authenticated principal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok && p.AuthID != ""
}

// WithSession stores the restored session (role display state) in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext extracts the restored session if present.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey).(Session)
	return s, ok && s.AuthID != ""
}

// Middleware attaches the principal to the request context from the session
// cookie or, for API clients, from a bearer token.
func Middleware(store SessionStore, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := store.Get(r); ok {
				ctx := WithPrincipal(r.Context(), Principal{AuthID: s.AuthID, Email: s.Email})
				r = r.WithContext(WithSession(ctx, s))
			} else if p, ok := parseBearer(r, jwtSecret); ok {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects to /login for HTML clients or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
