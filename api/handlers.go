package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type API struct {
	router         *mux.Router
	db             *sql.DB
	allowedOrigins []string
}

func NewAPI(db *sql.DB, allowedOrigins []string) *API {
	r := mux.NewRouter()
	r = r.PathPrefix("/api/timeblocks").Subrouter()
	return &API{
		router:         r,
		db:             db,
		allowedOrigins: allowedOrigins,
	}
}

func (a *API) Router() *mux.Router {
	return a.router
}

// Handler wraps the router with request-id tagging, Gorilla's logging handler
// and a CORS policy restricted to the configured origins.
func (a *API) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(a.allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return requestID(handlers.LoggingHandler(os.Stdout, cors(a.router)))
}

// requestID tags each request with an X-Request-Id header for log correlation,
// keeping any id the client already supplied.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (a *API) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (a *API) Message(w http.ResponseWriter, status int, message string) {
	a.JSON(w, status, map[string]string{"message": message})
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/student/{studentId:[0-9]+}", a.getTimeBlocksByStudent).Methods(http.MethodGet)
	a.router.HandleFunc("/student/{studentId:[0-9]+}/day/{day}", a.getTimeBlocksByStudentAndDay).Methods(http.MethodGet)
	a.router.HandleFunc("/student/{studentId:[0-9]+}/type/{type}", a.getTimeBlocksByType).Methods(http.MethodGet)
	a.router.HandleFunc("/student/{studentId:[0-9]+}", a.deleteTimeBlocksForStudent).Methods(http.MethodDelete)
	a.router.HandleFunc("/{id:[0-9]+}", a.getTimeBlock).Methods(http.MethodGet)
	a.router.HandleFunc("/{id:[0-9]+}", a.updateTimeBlock).Methods(http.MethodPut)
	a.router.HandleFunc("/{id:[0-9]+}", a.deleteTimeBlock).Methods(http.MethodDelete)
	a.router.HandleFunc("", a.createTimeBlock).Methods(http.MethodPost)
}
