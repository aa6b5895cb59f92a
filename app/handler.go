// app/handler.go
package app

import (
	"log/slog"
	"net/http"

	"facegateway/internal/gateway"
	"facegateway/internal/http/handlers"
	"facegateway/internal/http/router"
)

func NewHandler(db handlers.Pinger, users gateway.UserStore, faces gateway.FaceService, jwtSecret string, log *slog.Logger) http.Handler {
	return router.New(router.Deps{
		Gateway:   gateway.New(users, faces, log),
		DB:        db,
		JWTSecret: jwtSecret,
		Log:       log,
	})
}
