package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"facegateway/internal/gateway"
	"facegateway/internal/http/handlers"
	"facegateway/internal/http/middleware"
)

type Deps struct {
	Gateway   *gateway.Gateway
	DB        handlers.Pinger
	JWTSecret string
	Log       *slog.Logger
}

func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	fh := &handlers.FaceHandler{Gateway: d.Gateway}
	mux.HandleFunc("POST /face-register", fh.Register)
	mux.HandleFunc("POST /face-recognize", fh.Recognize)

	uh := &handlers.UserHandler{Gateway: d.Gateway}
	mux.HandleFunc("GET /users", uh.List)
	mux.Handle("GET /user", middleware.RequireAuth(d.JWTSecret, d.Log)(http.HandlerFunc(uh.Me)))

	hh := &handlers.HealthHandler{DB: d.DB}
	mux.HandleFunc("GET /health", hh.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.WithRequestID(middleware.Logger(d.Log)(middleware.Metrics(mux)))
}
