package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/leglesslizard/pkg/api/handlers"
	"github.com/cbodonnell/leglesslizard/pkg/api/middleware"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port int
	TLS  *TLSConfig
	Game handlers.GameService
	// WSHandler upgrades connections to the game websocket
	WSHandler http.Handler
}

// NewAPIServer creates a new http.Server serving the game websocket and the admin endpoints
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter builds the routes served by the APIServer
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(log.Default().WithComponent("api")))

	r.Handle("/ws", opts.WSHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handlers.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", handlers.HandleVersion).Methods(http.MethodGet)

	admin := r.NewRoute().Subrouter()
	admin.Use(middleware.CORS)
	admin.HandleFunc("/state", handlers.HandleGetState(opts.Game)).Methods(http.MethodGet)
	admin.HandleFunc("/state", handlePreflight).Methods(http.MethodOptions)
	admin.HandleFunc("/players/{playerID}", handlers.HandleKickPlayer(opts.Game)).Methods(http.MethodDelete)
	admin.HandleFunc("/players/{playerID}", handlePreflight).Methods(http.MethodOptions)
	return r
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
