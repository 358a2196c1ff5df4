package server

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/handlers"
	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/metrics"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/storage"
	"github.com/haserol/docpanel/internal/view"
)

type Options struct {
	DB           *gorm.DB
	SessionStore auth.SessionStore
	Chain        *identity.Chain
	ObjectStore  storage.ObjectStore
	JWTSecret    string
	Log          *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := opts.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", metrics.Handler())

	authHandler := handlers.NewAuthHandler(opts.DB, opts.SessionStore, opts.Chain, opts.JWTSecret, log)
	authHandler.Register(mux)

	ch := handlers.NewCustomerHandler(opts.DB, opts.Chain, log)
	mux.Handle("/api/customers", auth.RequireAuth(http.HandlerFunc(ch.List)))
	mux.Handle("/api/customers/profile", auth.RequireAuth(http.HandlerFunc(ch.Profile)))
	mux.Handle("/api/customers/update", auth.RequireAuth(http.HandlerFunc(ch.Update)))

	dh := handlers.NewDocumentHandler(opts.DB, opts.Chain, log)
	mux.Handle("/api/documents/catalogue", auth.RequireAuth(http.HandlerFunc(dh.Catalogue)))
	mux.Handle("/api/documents", auth.RequireAuth(http.HandlerFunc(dh.List)))
	mux.Handle("/api/documents/assign", auth.RequireAuth(http.HandlerFunc(dh.Assign)))
	mux.Handle("/api/documents/unassign", auth.RequireAuth(http.HandlerFunc(dh.Unassign)))

	mh := handlers.NewModulesHandler(opts.DB, opts.Chain, log)
	protected := http.NewServeMux()
	mh.Register(protected)
	mux.Handle("/api/modules/", auth.RequireAuth(protected))

	vh := handlers.NewVisitHandler(opts.DB, opts.Chain, log)
	mux.Handle("/visits", auth.RequireAuth(http.HandlerFunc(vh.List)))
	mux.Handle("/calendar", auth.RequireAuth(http.HandlerFunc(vh.Calendar)))

	ph := handlers.NewPreviewHandler(opts.DB, opts.Chain, log)
	mux.Handle("/preview/", auth.RequireAuth(http.HandlerFunc(ph.Show)))

	uh := handlers.NewUploadHandler(opts.ObjectStore, opts.Chain, log)
	mux.Handle("/api/uploads", auth.RequireAuth(http.HandlerFunc(uh.Upload)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		home(opts.DB, log, w, r)
	})

	c := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := auth.Middleware(opts.SessionStore, opts.JWTSecret)(mux)
	handler = withRecover(handler, log)
	handler = withLogging(handler, log)
	handler = metrics.Middleware(handler)
	return c.Handler(handler)
}

// home renders the dashboard for signed-in users, the landing page otherwise.
func home(db *gorm.DB, log *zap.Logger, w http.ResponseWriter, r *http.Request) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	data := map[string]any{"Role": s.Role, "Email": s.Email}
	var customerCount, visitCount, docCount int64
	if err := db.Model(&models.Customer{}).Count(&customerCount).Error; err != nil {
		log.Error("dashboard customer count failed", zap.Error(err))
	}
	if err := db.Model(&models.Visit{}).Count(&visitCount).Error; err != nil {
		log.Error("dashboard visit count failed", zap.Error(err))
	}
	if err := db.Model(&models.CustomerDocument{}).Count(&docCount).Error; err != nil {
		log.Error("dashboard document count failed", zap.Error(err))
	}
	data["Stats"] = map[string]any{
		"CustomerCount": customerCount,
		"VisitCount":    visitCount,
		"DocumentCount": docCount,
	}
	var recent []models.Visit
	if err := db.Order("visit_date desc").Limit(5).Find(&recent).Error; err != nil {
		log.Error("dashboard recent visits failed", zap.Error(err))
	}
	data["RecentVisits"] = recent
	if err := view.Render(w, r, "dashboard.html", data); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
