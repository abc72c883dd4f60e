package api

import "net/http"

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	a.JSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "timeblock-service",
	})
}
