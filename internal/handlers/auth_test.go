package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	err = db.AutoMigrate(
		&models.AuthUser{}, &models.Operator{}, &models.Customer{}, &models.Branch{},
		&models.CustomerDocument{}, &models.Visit{}, &models.Permit{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, authID, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AuthUser{AuthID: authID, Email: email, PasswordHash: string(hash)}).Error)
}

func loginForm(h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, r)
	return w
}

func TestLoginSuccessSetsSession(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u-1", "acme@x.com", "parola123")
	require.NoError(t, db.Create(&models.Customer{AuthUserID: "u-1", KisaIsim: "Acme"}).Error)

	store := auth.NewCookieStore("test-secret")
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewAuthHandler(db, store, chain, "jwt-secret", nil)

	w := loginForm(h, "Acme@x.com", "parola123") // email is case-folded
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	s, ok := store.Get(r)
	require.True(t, ok)
	require.Equal(t, "u-1", s.AuthID)
	require.Equal(t, "customer", s.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u-1", "acme@x.com", "parola123")

	h := NewAuthHandler(db, auth.NewCookieStore("s"), identity.NewChain(db, "", nil), "j", nil)
	w := loginForm(h, "acme@x.com", "yanlis")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db, auth.NewCookieStore("s"), identity.NewChain(db, "", nil), "j", nil)
	w := loginForm(h, "yok@x.com", "parola123")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWithoutRoleRejected(t *testing.T) {
	db := setupTestDB(t)
	// valid credentials but no role table claims the principal
	seedUser(t, db, "u-9", "orphan@x.com", "parola123")

	h := NewAuthHandler(db, auth.NewCookieStore("s"), identity.NewChain(db, "admin@haserol.com.tr", nil), "j", nil)
	w := loginForm(h, "orphan@x.com", "parola123")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "no_role")
}

func TestLoginJSONIssuesToken(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u-1", "admin@haserol.com.tr", "parola123")

	h := NewAuthHandler(db, auth.NewCookieStore("s"), identity.NewChain(db, "admin@haserol.com.tr", nil), "jwt-secret", nil)
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"admin@haserol.com.tr","password":"parola123"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"token"`)
	require.Contains(t, w.Body.String(), `"admin"`)
}
