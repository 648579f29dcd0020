package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/staffdir/staffdir/pkg/audit"
	"github.com/staffdir/staffdir/pkg/config"
	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// shareLinkGoneMessage is returned for every failed redemption. Unknown,
// expired, and exhausted tokens are indistinguishable to the caller.
const shareLinkGoneMessage = "Share link has expired or been used"

// RegisterShareLinkEndpoints registers share link issuance and the public
// redemption endpoint
func RegisterShareLinkEndpoints(s *server.Server) {
	shareRouter := s.Router.PathPrefix("/contacts/{id}/share").Subrouter()
	shareRouter.Use(s.Auth.Middleware)
	shareRouter.HandleFunc("", handleIssueShareLink(s)).Methods("POST")

	// Redemption is unauthenticated: possession of the token is the
	// credential.
	s.Router.HandleFunc("/public/contacts/{id}", handleConsumeShareLink(s)).Methods("GET")
}

// shareRequest keeps raw JSON so that an omitted field and an explicit null
// resolve differently
type shareRequest struct {
	TTLSeconds json.RawMessage `json:"ttlSeconds"`
	MaxUses    json.RawMessage `json:"maxUses"`
}

func handleIssueShareLink(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID := mux.Vars(r)["id"]
		id, _ := identity.Get(r.Context())

		// An absent body means defaults for everything.
		var req shareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cfg := config.Get()
		expiresAt, ttlSeconds, err := resolveTTL(req.TTLSeconds, cfg)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			auditShareIssue(id, r, contactID, ttlSeconds, nil, false, err.Error())
			return
		}

		maxUses, err := resolveMaxUses(req.MaxUses)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			auditShareIssue(id, r, contactID, ttlSeconds, nil, false, err.Error())
			return
		}

		if _, err := s.Contacts.GetContact(contactID); err != nil {
			if errors.Is(err, store.ErrContactNotFound) {
				respondWithError(w, http.StatusNotFound, "Contact not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		token, err := model.GenerateShareToken()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		link := &model.ShareLink{
			ContactID: contactID,
			TokenHash: model.HashShareToken(token),
			CreatedBy: id.Actor(),
			ExpiresAt: expiresAt,
			MaxUses:   maxUses,
		}
		if err := s.ShareLinks.CreateShareLink(link); err != nil {
			s.Logger.Error("share link creation failed")
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		auditShareIssue(id, r, contactID, ttlSeconds, maxUses, true, "")

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"token":     token,
			"expiresAt": formatExpiry(expiresAt),
		})
	}
}

func handleConsumeShareLink(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID := mux.Vars(r)["id"]
		clientIP := requestIP(r)

		token := r.URL.Query().Get("token")
		if token == "" {
			respondWithError(w, http.StatusBadRequest, "Share link token is required")
			return
		}

		_, err := s.ShareLinks.ConsumeShareLink(contactID, model.HashShareToken(token))
		if err != nil {
			// Database faults are collapsed into the same response as a bad
			// token; a distinct status here would leak redemption state.
			if !errors.Is(err, store.ErrShareLinkGone) {
				s.Logger.Error("share link consume failed")
			}
			audit.Log(audit.ShareConsumeEvent{ContactID: contactID, ClientIP: clientIP})
			respondWithError(w, http.StatusGone, shareLinkGoneMessage)
			return
		}

		contact, err := s.Contacts.GetContact(contactID)
		if err != nil {
			audit.Log(audit.ShareConsumeEvent{ContactID: contactID, ClientIP: clientIP})
			respondWithError(w, http.StatusGone, shareLinkGoneMessage)
			return
		}

		audit.Log(audit.ShareConsumeEvent{ContactID: contactID, ClientIP: clientIP, Success: true})

		if s.Scans != nil && config.Get().ScanEnrichmentEnabled {
			s.Scans.Record(contactID, clientIP, r.UserAgent())
		}

		respondWithJSON(w, http.StatusOK, contactResponse(contact))
	}
}

// resolveTTL turns the raw ttlSeconds field into an expiry time. Omitted
// selects the configured default; explicit null means the link never
// expires.
func resolveTTL(raw json.RawMessage, cfg *config.Config) (*time.Time, *int, error) {
	if isJSONNull(raw) {
		return nil, nil, nil
	}

	ttl := cfg.ShareLinkTTLDefaultSeconds
	if raw != nil {
		if err := json.Unmarshal(raw, &ttl); err != nil {
			return nil, nil, fmt.Errorf("ttlSeconds must be a number or null")
		}
		if ttl < cfg.ShareLinkTTLMinSeconds || ttl > cfg.ShareLinkTTLMaxSeconds {
			return nil, &ttl, fmt.Errorf("TTL must be between %ds and %ds",
				cfg.ShareLinkTTLMinSeconds, cfg.ShareLinkTTLMaxSeconds)
		}
	}

	expiresAt := time.Now().UTC().Add(time.Duration(ttl) * time.Second)
	return &expiresAt, &ttl, nil
}

// resolveMaxUses turns the raw maxUses field into a use cap. Omitted means
// single use; explicit null means unlimited.
func resolveMaxUses(raw json.RawMessage) (*int, error) {
	if isJSONNull(raw) {
		return nil, nil
	}

	uses := 1
	if raw != nil {
		if err := json.Unmarshal(raw, &uses); err != nil || uses < 1 {
			return nil, fmt.Errorf("maxUses must be a positive number or null for unlimited")
		}
	}
	return &uses, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return raw != nil && string(raw) == "null"
}

func formatExpiry(expiresAt *time.Time) interface{} {
	if expiresAt == nil {
		return nil
	}
	return expiresAt.Format(time.RFC3339)
}

func auditShareIssue(id *identity.Identity, r *http.Request, contactID string, ttl, maxUses *int, success bool, errMsg string) {
	event := audit.ShareIssueEvent{
		ContactID:    contactID,
		ClientIP:     requestIP(r),
		TTLSeconds:   ttl,
		MaxUses:      maxUses,
		Success:      success,
		ErrorMessage: errMsg,
	}
	if id != nil {
		event.Actor = id.Actor()
	}
	audit.Log(event)
}

// contactResponse is the public view of a contact returned through a share
// link
func contactResponse(contact *model.Contact) map[string]interface{} {
	return map[string]interface{}{
		"id":         contact.ID,
		"firstName":  contact.FirstName,
		"lastName":   contact.LastName,
		"name":       contact.FullName(),
		"email":      contact.Email,
		"phone":      contact.Phone,
		"title":      contact.Title,
		"department": contact.Department,
		"company":    contact.Company,
		"linkedIn":   contact.LinkedIn,
		"notes":      contact.Notes,
	}
}
