package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, store *CookieStore, s Session) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	store.Set(w, s)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestCookieRoundTrip(t *testing.T) {
	store := NewCookieStore("test-secret")
	ck := sessionCookie(t, store, Session{AuthID: "u-1", Email: "a@b", Role: "customer"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(ck)
	got, ok := store.Get(r)
	if !ok {
		t.Fatalf("session not restored")
	}
	if got.AuthID != "u-1" || got.Email != "a@b" || got.Role != "customer" {
		t.Fatalf("wrong session: %+v", got)
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	store := NewCookieStore("test-secret")
	ck := sessionCookie(t, store, Session{AuthID: "u-1", Email: "a@b"})

	parts := strings.SplitN(ck.Value, ".", 2)
	if len(parts) != 2 {
		t.Fatalf("unexpected cookie form: %q", ck.Value)
	}
	// flip the payload, keep the signature
	forged := &http.Cookie{Name: ck.Name, Value: "x" + parts[0] + "." + parts[1]}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(forged)
	if _, ok := store.Get(r); ok {
		t.Fatalf("tampered cookie accepted")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	store := NewCookieStore("secret-a")
	ck := sessionCookie(t, store, Session{AuthID: "u-1"})

	other := NewCookieStore("secret-b")
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(ck)
	if _, ok := other.Get(r); ok {
		t.Fatalf("cookie signed with a different secret accepted")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	store := NewCookieStore("test-secret")
	w := httptest.NewRecorder()
	store.Clear(w)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("clear did not expire the cookie: %+v", cookies)
	}
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	store := NewCookieStore("test-secret")
	ck := sessionCookie(t, store, Session{AuthID: "u-9", Email: "m@x", Role: "operator"})

	var got Principal
	var gotOK bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotOK = PrincipalFromContext(r.Context())
	})
	h := Middleware(store, "jwt-secret")(inner)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(ck)
	h.ServeHTTP(httptest.NewRecorder(), r)
	if !gotOK || got.AuthID != "u-9" || got.Email != "m@x" {
		t.Fatalf("principal not attached: %+v ok=%v", got, gotOK)
	}
}

func TestMiddlewareBearerFallback(t *testing.T) {
	store := NewCookieStore("test-secret")
	token, err := IssueToken("jwt-secret", Principal{AuthID: "u-7", Email: "api@x"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotOK bool
	var got Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotOK = PrincipalFromContext(r.Context())
	})
	h := Middleware(store, "jwt-secret")(inner)

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)
	if !gotOK || got.AuthID != "u-7" {
		t.Fatalf("bearer principal not attached: %+v ok=%v", got, gotOK)
	}
}

func TestRequireAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAuth(inner)

	// HTML client redirects to login
	r := httptest.NewRequest(http.MethodGet, "/visits", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	// JSON client gets 401
	r = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// authenticated request passes through
	r = httptest.NewRequest(http.MethodGet, "/visits", nil)
	r = r.WithContext(WithPrincipal(r.Context(), Principal{AuthID: "u-1"}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through 200, got %d", w.Code)
	}
}
