package endpoints

import (
	"net/http"
	"os"

	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/server"
)

// RegisterStatusEndpoints registers the health and identity echo endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET /health - liveness plus database connectivity (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s)).Methods("GET")

	// GET /whoami - echo the authenticated caller
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.Auth.Middleware)
	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("STAFFDIR_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		if s.Health != nil {
			if err := s.Health.CheckConnectivity(); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":  "degraded",
					"version": version,
				})
				return
			}
		}

		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	}
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"subject":  id.Subject,
			"email":    id.Email,
			"groups":   id.Groups,
			"clientIp": id.RemoteIP,
		})
	}
}
