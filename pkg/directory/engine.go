package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
	"github.com/staffdir/staffdir/pkg/vault"
)

// Engine orchestrates sync runs against the configured external directories.
// It owns no retry logic: a failed record or run is left in a state that a
// later run can safely repeat.
type Engine struct {
	settings store.SettingsStore
	contacts store.ContactStore
	devices  store.DeviceStore
	ledger   *Ledger
	vault    *vault.Vault
	logger   *zap.Logger
	timeout  time.Duration
	client   *http.Client
}

// NewEngine creates a sync engine. timeout bounds every outbound call.
func NewEngine(
	settings store.SettingsStore,
	contacts store.ContactStore,
	devices store.DeviceStore,
	ledger *Ledger,
	v *vault.Vault,
	logger *zap.Logger,
	timeout time.Duration,
) *Engine {
	return &Engine{
		settings: settings,
		contacts: contacts,
		devices:  devices,
		ledger:   ledger,
		vault:    v,
		logger:   logger,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Ledger exposes the engine's sync ledger
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// SyncOne pushes a single contact change to the CardDAV directory. A
// disabled integration makes this a logged no-op. The contact's sync status
// is updated to reflect the outcome.
func (e *Engine) SyncOne(ctx context.Context, contactID string, action model.SyncAction) error {
	client, err := e.carddavClient(true)
	if err != nil {
		if errors.Is(err, ErrIntegrationDisabled) {
			e.logger.Debug("carddav integration disabled, skipping sync",
				zap.String("contact", contactID))
			return nil
		}
		return err
	}

	contact, err := e.contacts.GetContact(contactID)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if action == model.SyncActionDelete {
		err = client.DeleteContact(callCtx, contact.ID)
	} else {
		err = client.PutContact(callCtx, contact)
	}

	if err != nil {
		e.logger.Warn("contact sync failed",
			zap.String("contact", contactID),
			zap.Stringer("action", action),
			zap.Error(err))
		if markErr := e.contacts.MarkContactSyncFailed(contact.ID); markErr != nil {
			e.logger.Error("failed to record contact sync failure", zap.Error(markErr))
		}
		return err
	}

	return e.contacts.MarkContactSynced(contact.ID)
}

// SyncAll runs a full reconciliation for a directory kind and returns the
// finalized ledger run. A record failure never stops the batch; a run-level
// failure (missing credentials, unreachable provider, cancellation)
// finalizes the run as failed with the counts accumulated so far.
func (e *Engine) SyncAll(ctx context.Context, kind model.SyncKind) (*model.SyncRun, error) {
	run, err := e.ledger.StartRun(kind)
	if err != nil {
		return nil, err
	}

	e.logger.Info("sync run started",
		zap.Stringer("kind", kind),
		zap.String("run", run.ID()))

	switch kind {
	case model.SyncKindCardDAV:
		return e.syncAllContacts(ctx, run)
	case model.SyncKindMDM:
		return e.syncAllDevices(ctx, run)
	default:
		finished, _ := run.Abort("unknown sync kind")
		return finished, fmt.Errorf("unknown sync kind: %v", kind)
	}
}

func (e *Engine) syncAllContacts(ctx context.Context, run *Run) (*model.SyncRun, error) {
	client, err := e.carddavClient(true)
	if err != nil {
		finished, _ := run.Abort(err.Error())
		return finished, err
	}

	contacts, err := e.contacts.ListContacts()
	if err != nil {
		finished, _ := run.Abort(err.Error())
		return finished, err
	}

	for i := range contacts {
		if ctx.Err() != nil {
			finished, ferr := run.Abort("sync canceled")
			if ferr != nil {
				return nil, ferr
			}
			return finished, ctx.Err()
		}

		contact := &contacts[i]
		if err := e.pushContact(ctx, client, contact); err != nil {
			run.RecordFailure(contact.ID, err.Error())
			if markErr := e.contacts.MarkContactSyncFailed(contact.ID); markErr != nil {
				e.logger.Error("failed to record contact sync failure", zap.Error(markErr))
			}
			continue
		}
		run.RecordSuccess()
		if markErr := e.contacts.MarkContactSynced(contact.ID); markErr != nil {
			e.logger.Error("failed to record contact sync success", zap.Error(markErr))
		}
	}

	return e.finalize(run, model.SyncStatusCompleted)
}

func (e *Engine) pushContact(ctx context.Context, client *CardDAVClient, contact *model.Contact) error {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return client.PutContact(callCtx, contact)
}

func (e *Engine) syncAllDevices(ctx context.Context, run *Run) (*model.SyncRun, error) {
	client, err := e.mdmClient(true)
	if err != nil {
		finished, _ := run.Abort(err.Error())
		return finished, err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	remote, err := client.FetchDevices(callCtx)
	cancel()
	if err != nil {
		finished, _ := run.Abort(err.Error())
		return finished, err
	}

	now := time.Now().UTC()

	for i := range remote {
		if ctx.Err() != nil {
			finished, ferr := run.Abort("sync canceled")
			if ferr != nil {
				return nil, ferr
			}
			return finished, ctx.Err()
		}

		device := &remote[i]
		if device.SerialNumber == "" {
			run.RecordFailure(device.ID.String(), "device has no serial number")
			continue
		}

		err := e.devices.UpsertDevice(&model.Device{
			ID:           uuid.NewString(),
			Name:         device.DisplayName(),
			SerialNumber: device.SerialNumber,
			Model:        device.DisplayModel(),
			OSVersion:    device.OSVersion,
			MDMDeviceID:  device.ID.String(),
			SyncStatus:   model.RecordSyncSynced,
			LastSyncedAt: &now,
		})
		if err != nil {
			run.RecordFailure(device.SerialNumber, err.Error())
			continue
		}
		run.RecordSuccess()
	}

	return e.finalize(run, model.SyncStatusCompleted)
}

func (e *Engine) finalize(run *Run, status model.SyncStatus) (*model.SyncRun, error) {
	finished, err := run.Finish(status)
	if err != nil {
		return nil, err
	}

	e.logger.Info("sync run finished",
		zap.String("run", finished.ID),
		zap.Stringer("status", finished.Status),
		zap.Int("processed", finished.RecordsProcessed),
		zap.Int("succeeded", finished.RecordsSucceeded),
		zap.Int("failed", finished.RecordsFailed))

	return finished, nil
}

// TestConnection probes the external directory without mutating anything.
// The integration doesn't need to be enabled, only configured.
func (e *Engine) TestConnection(ctx context.Context, kind model.SyncKind) (ProbeResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	switch kind {
	case model.SyncKindCardDAV:
		client, err := e.carddavClient(false)
		if err != nil {
			return "", err
		}
		return client.Probe(callCtx), nil
	case model.SyncKindMDM:
		client, err := e.mdmClient(false)
		if err != nil {
			return "", err
		}
		return client.Probe(callCtx), nil
	default:
		return "", fmt.Errorf("unknown sync kind: %v", kind)
	}
}

// carddavClient builds a CardDAV client from the stored settings,
// decrypting the password through the vault
func (e *Engine) carddavClient(requireEnabled bool) (*CardDAVClient, error) {
	setting, err := e.settings.GetSettings(model.SyncKindCardDAV.String())
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return nil, ErrIntegrationDisabled
		}
		return nil, err
	}
	if requireEnabled && !setting.Enabled {
		return nil, ErrIntegrationDisabled
	}

	password, err := e.decryptField(setting, "password")
	if err != nil {
		return nil, err
	}

	url := setting.Config["url"]
	username := setting.Config["username"]
	if url == "" || username == "" || password == "" {
		return nil, ErrNotConfigured
	}

	return NewCardDAVClient(url, username, password, e.client), nil
}

// mdmClient builds an MDM client from the stored settings
func (e *Engine) mdmClient(requireEnabled bool) (*MDMClient, error) {
	setting, err := e.settings.GetSettings(model.SyncKindMDM.String())
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return nil, ErrIntegrationDisabled
		}
		return nil, err
	}
	if requireEnabled && !setting.Enabled {
		return nil, ErrIntegrationDisabled
	}

	apiKey, err := e.decryptField(setting, "apiKey")
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	return NewMDMClient(setting.Config["baseUrl"], apiKey, e.client), nil
}

func (e *Engine) decryptField(setting *model.IntegrationSetting, field string) (string, error) {
	blob, ok := setting.EncryptedFields[field]
	if !ok || len(blob) == 0 {
		return "", nil
	}
	return e.vault.DecryptField(blob)
}
