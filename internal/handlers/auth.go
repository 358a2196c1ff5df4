package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/view"
)

type AuthHandler struct {
	DB        *gorm.DB
	Store     auth.SessionStore
	Chain     *identity.Chain
	JWTSecret string
	Log       *zap.Logger
}

func NewAuthHandler(db *gorm.DB, store auth.SessionStore, chain *identity.Chain, jwtSecret string, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{DB: db, Store: store, Chain: chain, JWTSecret: jwtSecret, Log: log}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)
	mux.HandleFunc("/api/me", h.Me)
}

// Login verifies the email/password against auth_users, resolves the role
// through the probe chain, and persists the session. A principal no role
// table claims is treated as unauthenticated and the session is cleared.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if err := view.Render(w, r, "login.html", nil); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	email, password, isJSON := credentials(r)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		h.fail(w, r, isJSON, http.StatusBadRequest, "missing_credentials")
		return
	}

	var user models.AuthUser
	err := h.DB.WithContext(r.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.fail(w, r, isJSON, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err != nil {
		h.Log.Error("login query failed", zap.Error(err))
		h.fail(w, r, isJSON, http.StatusInternalServerError, "login_failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.fail(w, r, isJSON, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	p := auth.Principal{AuthID: user.AuthID, Email: user.Email}
	ident := h.Chain.Resolve(r.Context(), p)
	if ident == nil {
		h.Store.Clear(w)
		h.fail(w, r, isJSON, http.StatusUnauthorized, "no_role")
		return
	}

	h.Store.Set(w, auth.Session{AuthID: p.AuthID, Email: p.Email, Role: string(ident.Role)})
	if isJSON {
		token, err := auth.IssueToken(h.JWTSecret, p, 24*time.Hour)
		if err != nil {
			h.Log.Error("token issue failed", zap.Error(err))
			httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"role": ident.Role, "token": token})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Store.Clear(w)
	if httpx.WantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me returns the freshly resolved identity; used by clients to restore UI
// state after a reload.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	if ident == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out := map[string]any{"role": ident.Role, "email": ident.Email}
	switch ident.Role {
	case identity.RoleOperator:
		out["operator"] = ident.Operator
	case identity.RoleCustomer:
		out["customer_id"] = ident.Customer.ID
	case identity.RoleBranch:
		out["branch_id"] = ident.Branch.ID
		out["customer_id"] = ident.Branch.CustomerID
	}
	httpx.JSON(w, http.StatusOK, out)
}

func credentials(r *http.Request) (email, password string, isJSON bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return body.Email, body.Password, true
		}
		return "", "", true
	}
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	return r.FormValue("email"), r.FormValue("password"), false
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, isJSON bool, status int, code string) {
	if isJSON || !httpx.WantsHTML(r) {
		httpx.JSONError(w, status, code, nil)
		return
	}
	w.WriteHeader(status)
	if err := view.Render(w, r, "login.html", map[string]any{"Error": code}); err != nil {
		_, _ = w.Write([]byte("login failed"))
	}
}
