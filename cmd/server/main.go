package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"facegateway/app"
)

func main() {
	_ = godotenv.Load()

	srv, err := app.NewFromEnv()
	if err != nil {
		log.Fatal("init: ", err)
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              srv.Config.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		srv.Log.Info("listening", "addr", srv.Config.Addr, "face_service", srv.Config.FaceServiceURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.Log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		srv.Log.Error("graceful shutdown failed", "error", err)
	}
}
