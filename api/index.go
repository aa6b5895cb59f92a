// api/[...path].go
package handler

import (
	"net/http"
	"sync"

	"facegateway/app"
)

var (
	once    sync.Once
	srv     *app.Server
	initErr error
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		srv, initErr = app.NewFromEnv()
	})
	if initErr != nil {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}
	srv.ServeHTTP(w, r)
}
