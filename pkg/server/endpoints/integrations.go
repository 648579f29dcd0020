package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/staffdir/staffdir/pkg/audit"
	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server"
	"github.com/staffdir/staffdir/pkg/server/store"
)

var integrationTypes = []string{"carddav", "mdm"}

// RegisterIntegrationEndpoints registers settings management endpoints.
// Reads require authentication; writes additionally require the admin group.
func RegisterIntegrationEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/integrations").Subrouter()
	router.Use(s.Auth.Middleware)

	router.HandleFunc("", handleListIntegrations(s)).Methods("GET")
	router.Handle("/{type}", s.Auth.RequireAdmin(handleUpdateIntegration(s))).Methods("PUT")
}

type integrationView struct {
	Type    string            `json:"type"`
	Enabled bool              `json:"enabled"`
	Config  map[string]string `json:"config"`
}

func handleListIntegrations(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := make([]integrationView, 0, len(integrationTypes))

		for _, integrationType := range integrationTypes {
			setting, err := s.Settings.GetSettings(integrationType)
			if err != nil {
				if errors.Is(err, store.ErrSettingsNotFound) {
					continue
				}
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			view, err := decryptedView(s, setting)
			if err != nil {
				s.Logger.Error("failed to decrypt integration settings")
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			views = append(views, view)
		}

		respondWithJSON(w, http.StatusOK, views)
	}
}

// decryptedView merges decrypted secret fields back into the config map for
// display. Ciphertext never leaves the server.
func decryptedView(s *server.Server, setting *model.IntegrationSetting) (integrationView, error) {
	cfg := make(map[string]string, len(setting.Config)+len(setting.EncryptedFields))
	for k, v := range setting.Config {
		cfg[k] = v
	}
	for field, blob := range setting.EncryptedFields {
		plain, err := s.Vault.DecryptField(blob)
		if err != nil {
			return integrationView{}, err
		}
		cfg[field] = plain
	}
	return integrationView{Type: setting.Type, Enabled: setting.Enabled, Config: cfg}, nil
}

type integrationUpdate struct {
	Enabled  *bool  `json:"enabled"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
}

func handleUpdateIntegration(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationType := mux.Vars(r)["type"]
		id, _ := identity.Get(r.Context())

		if !validIntegrationType(integrationType) {
			respondWithError(w, http.StatusNotFound, "Unknown integration type")
			return
		}

		var req integrationUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		setting, err := s.Settings.GetSettings(integrationType)
		if err != nil {
			if !errors.Is(err, store.ErrSettingsNotFound) {
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			setting = &model.IntegrationSetting{
				Type:            integrationType,
				Config:          model.JSONMap{},
				EncryptedFields: model.BlobMap{},
			}
		}
		if setting.Config == nil {
			setting.Config = model.JSONMap{}
		}
		if setting.EncryptedFields == nil {
			setting.EncryptedFields = model.BlobMap{}
		}

		if req.Enabled != nil {
			setting.Enabled = *req.Enabled
		}

		// Non-secret fields keep their previous value when omitted.
		applyConfigField(setting, "url", req.URL)
		applyConfigField(setting, "username", req.Username)
		applyConfigField(setting, "baseUrl", req.BaseURL)

		secrets := map[string]string{"password": req.Password, "apiKey": req.APIKey}
		for _, field := range model.SecretFieldNames(integrationType) {
			plain := secrets[field]
			if plain == "" {
				continue
			}
			blob, err := s.Vault.EncryptField(plain)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			setting.EncryptedFields[field] = blob
			// Secrets never land in the plain config map.
			delete(setting.Config, field)
		}

		if err := s.Settings.UpsertSettings(setting); err != nil {
			auditSettingsUpdate(id, r, setting, false, "storage failure")
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		auditSettingsUpdate(id, r, setting, true, "")

		view, err := decryptedView(s, setting)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		respondWithJSON(w, http.StatusOK, view)
	}
}

func applyConfigField(setting *model.IntegrationSetting, key, value string) {
	if value != "" {
		setting.Config[key] = value
	}
}

func validIntegrationType(integrationType string) bool {
	for _, t := range integrationTypes {
		if t == integrationType {
			return true
		}
	}
	return false
}

func auditSettingsUpdate(id *identity.Identity, r *http.Request, setting *model.IntegrationSetting, success bool, errMsg string) {
	event := audit.SettingsUpdateEvent{
		IntegrationType: setting.Type,
		ClientIP:        requestIP(r),
		Enabled:         setting.Enabled,
		Success:         success,
		ErrorMessage:    errMsg,
	}
	if id != nil {
		event.Actor = id.Actor()
	}
	audit.Log(event)
}
