// Package handler exposes the server as a single serverless function.
package handler

import (
	"net/http"
	"shareit/config"
	"shareit/di"
	"shareit/shared/logger"
	"sync"
)

var (
	app  http.Handler
	once sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		app = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
