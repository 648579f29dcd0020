package endpoints

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/directory"
	"github.com/staffdir/staffdir/pkg/identity"
	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server"
	"github.com/staffdir/staffdir/pkg/server/middleware"
	"github.com/staffdir/staffdir/pkg/vault"
)

var testSigningSecret = []byte("endpoint-test-secret")

type testFixture struct {
	srv        *server.Server
	shareLinks *memShareLinkStore
	settings   *memSettingsStore
	contacts   *memContactStore
	devices    *memDeviceStore
	runs       *memSyncRunStore
	vault      *vault.Vault
}

func newTestFixture(t *testing.T, contacts ...model.Contact) *testFixture {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	v, err := vault.New(key)
	require.NoError(t, err)

	shareLinks := &memShareLinkStore{}
	settings := newMemSettingsStore()
	contactStore := newMemContactStore(contacts...)
	devices := newMemDeviceStore()
	runs := newMemSyncRunStore()

	auth := middleware.NewAuthenticator(testSigningSecret, "staffdir-admins")
	engine := directory.NewEngine(settings, contactStore, devices, directory.NewLedger(runs, model.MaxFailureDetails), v, zap.NewNop(), 5*time.Second)

	srv := server.NewServer(nil, v, auth, engine, nil, zap.NewNop(), "localhost", "0")
	srv.ShareLinks = shareLinks
	srv.Settings = settings
	srv.Contacts = contactStore
	srv.Devices = devices
	srv.SyncRuns = runs

	RegisterAll(srv)

	return &testFixture{
		srv:        srv,
		shareLinks: shareLinks,
		settings:   settings,
		contacts:   contactStore,
		devices:    devices,
		runs:       runs,
		vault:      v,
	}
}

func bearerToken(t *testing.T, subject string, groups ...string) string {
	claims := identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:  subject,
		Groups: groups,
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningSecret)
	require.NoError(t, err)
	return "Bearer " + tokenStr
}

func adminToken(t *testing.T) string {
	return bearerToken(t, "admin@example.com", "staffdir-admins")
}
