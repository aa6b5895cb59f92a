package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Face recognition microservice
	FaceServiceURL   string        `envconfig:"PYTHON_MICROSERVICE_URL" required:"true"`
	RegisterTimeout  time.Duration `envconfig:"FACE_REGISTER_TIMEOUT" default:"60s"`
	RecognizeTimeout time.Duration `envconfig:"FACE_RECOGNIZE_TIMEOUT" default:"60s"`
	// Auth (token diterbitkan di luar service ini, kita cuma verifikasi)
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret"`
	// Network
	Addr     string `envconfig:"ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	c.FaceServiceURL = strings.TrimRight(strings.TrimSpace(c.FaceServiceURL), "/")
	// envconfig menganggap variabel kosong sebagai "ada"
	if c.FaceServiceURL == "" {
		return App{}, errors.New("PYTHON_MICROSERVICE_URL is empty")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return App{}, errors.New("DATABASE_URL is empty")
	}
	return c, nil
}
