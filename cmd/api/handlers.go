package main

import (
	"net/http"
)

const version = "1.0.0"

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{
		"status":  "available",
		"version": version,
		"debug":   app.cfg.Debug,
	}, "")
}
