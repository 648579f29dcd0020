package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/vault"
)

func testVault(t *testing.T) *vault.Vault {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	v, err := vault.New(key)
	require.NoError(t, err)
	return v
}

func carddavSetting(t *testing.T, v *vault.Vault, url string, enabled bool) *model.IntegrationSetting {
	encrypted, err := v.EncryptField("secret-password")
	require.NoError(t, err)
	return &model.IntegrationSetting{
		Type:    "carddav",
		Enabled: enabled,
		Config: model.JSONMap{
			"url":      url,
			"username": "sync-bot@example.com",
		},
		EncryptedFields: model.BlobMap{"password": encrypted},
	}
}

func mdmSetting(t *testing.T, v *vault.Vault, url string, enabled bool) *model.IntegrationSetting {
	encrypted, err := v.EncryptField("mdm-api-key")
	require.NoError(t, err)
	return &model.IntegrationSetting{
		Type:            "mdm",
		Enabled:         enabled,
		Config:          model.JSONMap{"baseUrl": url},
		EncryptedFields: model.BlobMap{"apiKey": encrypted},
	}
}

func newTestEngine(settings *fakeSettingsStore, contacts *fakeContactStore, devices *fakeDeviceStore, runs *fakeSyncRunStore, v *vault.Vault) *Engine {
	return NewEngine(settings, contacts, devices, NewLedger(runs, model.MaxFailureDetails), v, zap.NewNop(), 5*time.Second)
}

func TestSyncAllContacts_IsolatesRecordFailures(t *testing.T) {
	v := testVault(t)

	// The server rejects contact c-3 and accepts everything else.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sync-bot@example.com", user)
		assert.Equal(t, "secret-password", pass)

		if strings.HasSuffix(r.URL.Path, "/c-3.vcf") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	var contacts []model.Contact
	for i := 1; i <= 5; i++ {
		contacts = append(contacts, model.Contact{
			ID:        fmt.Sprintf("c-%d", i),
			FirstName: "Test",
			LastName:  fmt.Sprintf("Person%d", i),
			Email:     fmt.Sprintf("p%d@example.com", i),
		})
	}

	settings := &fakeSettingsStore{setting: carddavSetting(t, v, server.URL+"/", true)}
	contactStore := newFakeContactStore(contacts...)
	runs := newFakeSyncRunStore()
	engine := newTestEngine(settings, contactStore, newFakeDeviceStore(), runs, v)

	run, err := engine.SyncAll(context.Background(), model.SyncKindCardDAV)
	require.NoError(t, err)

	assert.Equal(t, model.SyncStatusCompleted, run.Status)
	assert.Equal(t, 5, run.RecordsProcessed)
	assert.Equal(t, 4, run.RecordsSucceeded)
	assert.Equal(t, 1, run.RecordsFailed)
	require.Len(t, run.ErrorDetails, 1)
	assert.Equal(t, "c-3", run.ErrorDetails[0].ItemRef)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, run.RecordsProcessed, run.RecordsSucceeded+run.RecordsFailed)

	assert.Equal(t, model.RecordSyncFailed, contactStore.statuses["c-3"])
	assert.Equal(t, model.RecordSyncSynced, contactStore.statuses["c-1"])

	// The ledger holds the finalized run.
	stored, err := runs.GetSyncRun(run.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsTerminal())
}

func TestSyncAll_DisabledIntegrationFailsRun(t *testing.T) {
	v := testVault(t)
	settings := &fakeSettingsStore{setting: carddavSetting(t, v, "http://example.invalid/", false)}
	engine := newTestEngine(settings, newFakeContactStore(), newFakeDeviceStore(), newFakeSyncRunStore(), v)

	run, err := engine.SyncAll(context.Background(), model.SyncKindCardDAV)
	assert.ErrorIs(t, err, ErrIntegrationDisabled)
	require.NotNil(t, run)
	assert.Equal(t, model.SyncStatusFailed, run.Status)
	assert.NotNil(t, run.CompletedAt)
}

func TestSyncAll_Cancellation(t *testing.T) {
	v := testVault(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	settings := &fakeSettingsStore{setting: carddavSetting(t, v, server.URL+"/", true)}
	contactStore := newFakeContactStore(model.Contact{ID: "c-1"}, model.Contact{ID: "c-2"})
	engine := newTestEngine(settings, contactStore, newFakeDeviceStore(), newFakeSyncRunStore(), v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := engine.SyncAll(ctx, model.SyncKindCardDAV)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Equal(t, model.SyncStatusFailed, run.Status)
	assert.Equal(t, 0, run.RecordsProcessed)
	assert.NotNil(t, run.CompletedAt)
}

func TestSyncOne_DisabledIsNoOp(t *testing.T) {
	v := testVault(t)
	settings := &fakeSettingsStore{}
	contactStore := newFakeContactStore(model.Contact{ID: "c-1"})
	engine := newTestEngine(settings, contactStore, newFakeDeviceStore(), newFakeSyncRunStore(), v)

	err := engine.SyncOne(context.Background(), "c-1", model.SyncActionUpdate)
	assert.NoError(t, err)
	assert.Empty(t, contactStore.statuses)
}

func TestSyncOne_DeleteToleratesMissingRemote(t *testing.T) {
	v := testVault(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	settings := &fakeSettingsStore{setting: carddavSetting(t, v, server.URL+"/", true)}
	contactStore := newFakeContactStore(model.Contact{ID: "c-1"})
	engine := newTestEngine(settings, contactStore, newFakeDeviceStore(), newFakeSyncRunStore(), v)

	err := engine.SyncOne(context.Background(), "c-1", model.SyncActionDelete)
	assert.NoError(t, err)
	assert.Equal(t, model.RecordSyncSynced, contactStore.statuses["c-1"])
}

func TestSyncOne_UpstreamFailureMarksContact(t *testing.T) {
	v := testVault(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	settings := &fakeSettingsStore{setting: carddavSetting(t, v, server.URL+"/", true)}
	contactStore := newFakeContactStore(model.Contact{ID: "c-1"})
	engine := newTestEngine(settings, contactStore, newFakeDeviceStore(), newFakeSyncRunStore(), v)

	err := engine.SyncOne(context.Background(), "c-1", model.SyncActionCreate)
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, model.RecordSyncFailed, contactStore.statuses["c-1"])
}

func TestSyncAllDevices_UpsertsBySerial(t *testing.T) {
	v := testVault(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/devices", r.URL.Path)
		assert.Equal(t, "Bearer mdm-api-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"devices": [
			{"id": 101, "name": "MacBook Pro", "serial_number": "c02abc123", "model": "MacBookPro18,1", "os_version": "14.2"},
			{"id": 102, "device_name": "iPad", "serial_number": "DMQXYZ789", "device_model": "iPad13,1"},
			{"id": 103, "name": "Ghost Device"}
		]}`)
	}))
	defer server.Close()

	settings := &fakeSettingsStore{setting: mdmSetting(t, v, server.URL, true)}
	deviceStore := newFakeDeviceStore()
	engine := newTestEngine(settings, newFakeContactStore(), deviceStore, newFakeSyncRunStore(), v)

	run, err := engine.SyncAll(context.Background(), model.SyncKindMDM)
	require.NoError(t, err)

	assert.Equal(t, model.SyncStatusCompleted, run.Status)
	assert.Equal(t, 3, run.RecordsProcessed)
	assert.Equal(t, 2, run.RecordsSucceeded)
	assert.Equal(t, 1, run.RecordsFailed)

	// Serial numbers are normalized to upper case before storage.
	stored, ok := deviceStore.devices["C02ABC123"]
	require.True(t, ok)
	assert.Equal(t, "MacBook Pro", stored.Name)
	assert.Equal(t, "101", stored.MDMDeviceID)
	assert.Equal(t, model.RecordSyncSynced, stored.SyncStatus)

	ipad, ok := deviceStore.devices["DMQXYZ789"]
	require.True(t, ok)
	assert.Equal(t, "iPad", ipad.Name)
	assert.Equal(t, "iPad13,1", ipad.Model)
}

func TestTestConnection_Classification(t *testing.T) {
	v := testVault(t)

	testCases := []struct {
		name   string
		status int
		want   ProbeResult
	}{
		{"multi-status", http.StatusMultiStatus, ProbeReachable},
		{"ok", http.StatusOK, ProbeReachable},
		{"unauthorized", http.StatusUnauthorized, ProbeAuthFailed},
		{"forbidden", http.StatusForbidden, ProbeAuthFailed},
		{"server error", http.StatusInternalServerError, ProbeUnreachable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "PROPFIND", r.Method)
				assert.Equal(t, "0", r.Header.Get("Depth"))
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			// Disabled on purpose: probes don't require the integration to
			// be enabled.
			settings := &fakeSettingsStore{setting: carddavSetting(t, v, server.URL+"/", false)}
			engine := newTestEngine(settings, newFakeContactStore(), newFakeDeviceStore(), newFakeSyncRunStore(), v)

			result, err := engine.TestConnection(context.Background(), model.SyncKindCardDAV)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestTestConnection_UnreachableHost(t *testing.T) {
	v := testVault(t)
	settings := &fakeSettingsStore{setting: carddavSetting(t, v, "http://127.0.0.1:1/", false)}
	engine := newTestEngine(settings, newFakeContactStore(), newFakeDeviceStore(), newFakeSyncRunStore(), v)

	result, err := engine.TestConnection(context.Background(), model.SyncKindCardDAV)
	require.NoError(t, err)
	assert.Equal(t, ProbeUnreachable, result)
}

func TestLedgerFailureListIsBounded(t *testing.T) {
	runs := newFakeSyncRunStore()
	ledger := NewLedger(runs, model.MaxFailureDetails)

	run, err := ledger.StartRun(model.SyncKindCardDAV)
	require.NoError(t, err)

	for i := 0; i < model.MaxFailureDetails+20; i++ {
		run.RecordFailure(fmt.Sprintf("c-%d", i), "boom")
	}

	finished, err := run.Finish(model.SyncStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, model.MaxFailureDetails+20, run.run.RecordsFailed)
	assert.Len(t, finished.ErrorDetails, model.MaxFailureDetails)
}

func TestLedgerHonorsConfiguredDetailLimit(t *testing.T) {
	runs := newFakeSyncRunStore()
	ledger := NewLedger(runs, 5)

	run, err := ledger.StartRun(model.SyncKindCardDAV)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		run.RecordFailure(fmt.Sprintf("c-%d", i), "boom")
	}

	finished, err := run.Finish(model.SyncStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, 10, finished.RecordsFailed)
	assert.Len(t, finished.ErrorDetails, 5)
}

func TestLedgerDetailLimitFallsBackToDefault(t *testing.T) {
	runs := newFakeSyncRunStore()
	ledger := NewLedger(runs, 0)

	run, err := ledger.StartRun(model.SyncKindCardDAV)
	require.NoError(t, err)
	assert.Equal(t, model.MaxFailureDetails, run.detailLimit)
}
