package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/config"
	"github.com/haserol/docpanel/internal/db"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/server"
	"github.com/haserol/docpanel/internal/storage"
	"github.com/haserol/docpanel/internal/view"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedAdminFlag   = flag.String("seed-admin", "", "Create the admin login with the given password and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed; exiting as requested")
		return
	}
	if *seedAdminFlag != "" {
		if err := seedAdmin(dbConn, cfg.AdminEmail, *seedAdminFlag); err != nil {
			log.Fatal("seed admin failed", zap.Error(err))
		}
		log.Info("admin login ready", zap.String("email", cfg.AdminEmail))
		return
	}

	var objectStore storage.ObjectStore
	if cfg.CloudinaryURL != "" {
		objectStore, err = storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.UploadFolder)
		if err != nil {
			log.Fatal("object store init failed", zap.Error(err))
		}
	} else {
		log.Warn("CLOUDINARY_URL not set; uploads disabled")
	}

	view.SetLangResolver(langFromRequest)

	handler := server.New(server.Options{
		DB:           dbConn,
		SessionStore: auth.NewCookieStore(cfg.SessionSecret),
		Chain:        identity.NewChain(dbConn, cfg.AdminEmail, log),
		ObjectStore:  objectStore,
		JWTSecret:    cfg.JWTSecret,
		Log:          log,
	})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

func newLogger(cfg config.Config) *zap.Logger {
	var level zapcore.Level
	if err := level.Set(cfg.LogLevel); err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.Env == "production" {
		c := zap.NewProductionConfig()
		c.Level = zap.NewAtomicLevelAt(level)
		c.EncoderConfig.TimeKey = "timestamp"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err := c.Build(zap.Fields(zap.String("service", "docpanel")))
		if err != nil {
			panic(err)
		}
		return l
	}
	c := zap.NewDevelopmentConfig()
	c.Level = zap.NewAtomicLevelAt(level)
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := c.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// langFromRequest picks the UI language from the lang cookie; Turkish is the
// default and the only other table is English.
func langFromRequest(r *http.Request) string {
	if ck, err := r.Cookie("lang"); err == nil && ck.Value == "en" {
		return "en"
	}
	return "tr"
}

// seedAdmin upserts the admin auth user so a fresh deployment can sign in.
func seedAdmin(dbConn *gorm.DB, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var existing models.AuthUser
	err = dbConn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		existing.PasswordHash = string(hash)
		return dbConn.Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	user := models.AuthUser{AuthID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	return dbConn.Create(&user).Error
}
