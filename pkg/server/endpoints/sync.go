package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/staffdir/staffdir/pkg/audit"
	"github.com/staffdir/staffdir/pkg/directory"
	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// RegisterSyncEndpoints registers sync trigger, connection test, and sync
// status endpoints
func RegisterSyncEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/integrations/{type}").Subrouter()
	router.Use(s.Auth.Middleware)

	router.Handle("/sync", s.Auth.RequireAdmin(handleTriggerSync(s))).Methods("POST")
	router.Handle("/test", s.Auth.RequireAdmin(handleTestConnection(s))).Methods("POST")
	router.HandleFunc("/sync/status", handleSyncStatus(s)).Methods("GET")
}

type syncRunView struct {
	ID               string            `json:"id"`
	Kind             model.SyncKind    `json:"kind"`
	Status           model.SyncStatus  `json:"status"`
	StartedAt        time.Time         `json:"startedAt"`
	CompletedAt      *time.Time        `json:"completedAt"`
	RecordsProcessed int               `json:"recordsProcessed"`
	RecordsSucceeded int               `json:"recordsSucceeded"`
	RecordsFailed    int               `json:"recordsFailed"`
	ErrorDetails     model.FailureList `json:"errorDetails"`
}

func viewOfRun(run *model.SyncRun) syncRunView {
	return syncRunView{
		ID:               run.ID,
		Kind:             run.Kind,
		Status:           run.Status,
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
		RecordsProcessed: run.RecordsProcessed,
		RecordsSucceeded: run.RecordsSucceeded,
		RecordsFailed:    run.RecordsFailed,
		ErrorDetails:     run.ErrorDetails,
	}
}

func handleTriggerSync(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := parseSyncKind(w, r)
		if !ok {
			return
		}
		id, _ := identity.Get(r.Context())

		run, err := s.Engine.SyncAll(r.Context(), kind)
		auditSyncRun(id, kind, run, err)

		if err != nil {
			if errors.Is(err, directory.ErrIntegrationDisabled) || errors.Is(err, directory.ErrNotConfigured) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			respondWithError(w, http.StatusBadGateway, "Sync failed")
			return
		}

		respondWithJSON(w, http.StatusOK, viewOfRun(run))
	}
}

func handleTestConnection(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := parseSyncKind(w, r)
		if !ok {
			return
		}

		result, err := s.Engine.TestConnection(r.Context(), kind)
		if err != nil {
			if errors.Is(err, directory.ErrIntegrationDisabled) || errors.Is(err, directory.ErrNotConfigured) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"result":  result,
			"success": result == directory.ProbeReachable,
		})
	}
}

func handleSyncStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := parseSyncKind(w, r)
		if !ok {
			return
		}

		run, err := s.Engine.Ledger().LastRun(kind)
		if err != nil {
			if errors.Is(err, store.ErrSyncRunNotFound) {
				respondWithJSON(w, http.StatusOK, map[string]interface{}{"run": nil})
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"run": viewOfRun(run)})
	}
}

func parseSyncKind(w http.ResponseWriter, r *http.Request) (model.SyncKind, bool) {
	kind, err := model.SyncKindString(mux.Vars(r)["type"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown integration type")
		return 0, false
	}
	return kind, true
}

func auditSyncRun(id *identity.Identity, kind model.SyncKind, run *model.SyncRun, err error) {
	event := audit.SyncRunEvent{
		Kind:    kind.String(),
		Success: err == nil,
	}
	if id != nil {
		event.Actor = id.Actor()
	}
	if run != nil {
		event.RunID = run.ID
		event.Processed = run.RecordsProcessed
		event.Succeeded = run.RecordsSucceeded
		event.Failed = run.RecordsFailed
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}
