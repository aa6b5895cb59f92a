package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"facegateway/internal/config"
	"facegateway/internal/db"
	"facegateway/internal/facesvc"
	"facegateway/internal/logger"
	"facegateway/internal/repo"
)

type Server struct {
	Config  config.App
	DB      *sql.DB
	Log     *slog.Logger
	Handler http.Handler
}

func NewFromEnv() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel)

	sqlDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Tuning kecil biar aman di serverless
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	faces := facesvc.New(facesvc.Config{
		BaseURL:          cfg.FaceServiceURL,
		RegisterTimeout:  cfg.RegisterTimeout,
		RecognizeTimeout: cfg.RecognizeTimeout,
	}, nil)

	return &Server{
		Config:  cfg,
		DB:      sqlDB,
		Log:     log,
		Handler: NewHandler(sqlDB, repo.NewUserRepo(sqlDB), faces, cfg.JWTSecret, log),
	}, nil
}

// ServeHTTP route asli ada di bawah /api; prefix itu opsional.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
		http.StripPrefix("/api", s.Handler).ServeHTTP(w, r)
		return
	}
	s.Handler.ServeHTTP(w, r)
}

func (s *Server) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
