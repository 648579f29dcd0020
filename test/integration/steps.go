package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	contactID    string
	shareToken   string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a staff directory server is running$`, s.aServerIsRunning)
	sc.Step(`^a contact "([^"]*)" exists with email "([^"]*)"$`, s.aContactExists)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am authenticated as an administrator$`, s.iAmAuthenticatedAsAdmin)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Share link steps
	sc.Step(`^I issue a share link for the contact$`, s.iIssueAShareLink)
	sc.Step(`^I issue a share link with ttl (\d+) seconds and max uses (\d+)$`, s.iIssueAShareLinkWithOptions)
	sc.Step(`^I redeem the share link$`, s.iRedeemTheShareLink)
	sc.Step(`^I redeem the share link with token "([^"]*)"$`, s.iRedeemWithToken)

	// Integration settings steps
	sc.Step(`^I configure the "([^"]*)" integration with:$`, s.iConfigureIntegration)
	sc.Step(`^the stored "([^"]*)" settings should not contain "([^"]*)"$`, s.storedSettingsShouldNotContain)
	sc.Step(`^I list the integrations$`, s.iListIntegrations)

	// Sync steps
	sc.Step(`^I request the "([^"]*)" sync status$`, s.iRequestSyncStatus)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)" with value "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
	sc.Step(`^only the token hash should be stored$`, s.onlyTheTokenHashShouldBeStored)
}

// Background steps

func (s *StepsContext) aServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aContactExists(name, email string) error {
	parts := strings.SplitN(name, " ", 2)
	contact := model.Contact{
		ID:        uuid.NewString(),
		FirstName: parts[0],
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if len(parts) > 1 {
		contact.LastName = parts[1]
	}

	if err := s.tc.DB.Create(&contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	s.contactID = contact.ID
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(subject string) error {
	return s.mintToken(subject)
}

func (s *StepsContext) iAmAuthenticatedAsAdmin() error {
	return s.mintToken("admin@example.com", "staffdir-admins")
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) mintToken(subject string, groups ...string) error {
	claims := identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:  subject,
		Groups: groups,
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testJWTSecret)
	if err != nil {
		return err
	}
	s.authToken = tokenStr
	return nil
}

// Share link steps

func (s *StepsContext) iIssueAShareLink() error {
	return s.postJSON("/contacts/"+s.contactID+"/share", nil)
}

func (s *StepsContext) iIssueAShareLinkWithOptions(ttl, maxUses int) error {
	body := map[string]interface{}{
		"ttlSeconds": ttl,
		"maxUses":    maxUses,
	}
	return s.postJSON("/contacts/"+s.contactID+"/share", body)
}

func (s *StepsContext) iRedeemTheShareLink() error {
	if s.shareToken == "" {
		var issued struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &issued); err != nil {
			return fmt.Errorf("no share token captured: %w", err)
		}
		s.shareToken = issued.Token
	}
	return s.iRedeemWithToken(s.shareToken)
}

func (s *StepsContext) iRedeemWithToken(token string) error {
	path := "/public/contacts/" + s.contactID
	if token != "" {
		path += "?token=" + url.QueryEscape(token)
	}
	return s.get(path, false)
}

// Integration settings steps

func (s *StepsContext) iConfigureIntegration(integrationType string, body *godog.DocString) error {
	req, err := http.NewRequest(http.MethodPut,
		s.tc.ServerURL+"/integrations/"+integrationType,
		bytes.NewBufferString(body.Content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	return s.do(req)
}

func (s *StepsContext) storedSettingsShouldNotContain(integrationType, secret string) error {
	var setting model.IntegrationSetting
	if err := s.tc.DB.Where("type = ?", integrationType).First(&setting).Error; err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if _, ok := setting.Config[secret]; ok {
		return fmt.Errorf("expected %q to be absent from stored config", secret)
	}
	if _, ok := setting.EncryptedFields[secret]; !ok {
		return fmt.Errorf("expected an encrypted %q field to be stored", secret)
	}
	return nil
}

func (s *StepsContext) iListIntegrations() error {
	return s.get("/integrations", true)
}

// Sync steps

func (s *StepsContext) iRequestSyncStatus(integrationType string) error {
	return s.get("/integrations/"+integrationType+"/sync/status", true)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(field, value string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}

	got, ok := body[field]
	if !ok {
		return fmt.Errorf("field %q not found in response: %s", field, s.responseBody)
	}
	if fmt.Sprintf("%v", got) != value {
		return fmt.Errorf("expected %q to be %q, got %v", field, value, got)
	}
	return nil
}

func (s *StepsContext) theResponseErrorShouldBe(message string) error {
	return s.theResponseShouldContain("error", message)
}

func (s *StepsContext) onlyTheTokenHashShouldBeStored() error {
	if s.shareToken == "" {
		var issued struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &issued); err != nil {
			return fmt.Errorf("no share token captured: %w", err)
		}
		s.shareToken = issued.Token
	}

	var count int64
	if err := s.tc.DB.Model(&model.ShareLink{}).
		Where("token_hash = ?", model.HashShareToken(s.shareToken)).
		Count(&count).Error; err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("expected one link stored under the token hash, got %d", count)
	}

	if err := s.tc.DB.Model(&model.ShareLink{}).
		Where("token_hash = ?", s.shareToken).
		Count(&count).Error; err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("plaintext token found in the database")
	}
	return nil
}

// HTTP helpers

func (s *StepsContext) postJSON(path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	return s.do(req)
}

func (s *StepsContext) get(path string, authenticated bool) error {
	req, err := http.NewRequest(http.MethodGet, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	if authenticated && s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody = body
	return nil
}
