package endpoints

import (
	"sync"
	"time"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// memShareLinkStore reproduces the conditional-update semantics of the real
// store under a mutex so concurrency tests exercise single-redemption
// guarantees.
type memShareLinkStore struct {
	mu     sync.Mutex
	nextID int64
	links  []*model.ShareLink
}

func (m *memShareLinkStore) CreateShareLink(link *model.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	link.ID = m.nextID
	link.CreatedAt = time.Now().UTC()
	stored := *link
	m.links = append(m.links, &stored)
	return nil
}

func (m *memShareLinkStore) ConsumeShareLink(contactID, tokenHash string) (*model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, link := range m.links {
		if link.ContactID != contactID || link.TokenHash != tokenHash {
			continue
		}
		if link.IsExpired(now) || link.IsExhausted() {
			return nil, store.ErrShareLinkGone
		}
		link.UsesCount++
		link.UsedAt = &now
		snapshot := *link
		return &snapshot, nil
	}
	return nil, store.ErrShareLinkGone
}

func (m *memShareLinkStore) ListShareLinks(contactID string) ([]model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ShareLink
	for _, link := range m.links {
		if link.ContactID == contactID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (m *memShareLinkStore) RevokeShareLink(contactID string, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, link := range m.links {
		if link.ContactID == contactID && link.ID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memShareLinkStore) ReapExpired(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.ShareLink
	var removed int64
	for _, link := range m.links {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, link)
	}
	m.links = kept
	return removed, nil
}

type memSettingsStore struct {
	mu       sync.Mutex
	settings map[string]*model.IntegrationSetting
}

func newMemSettingsStore() *memSettingsStore {
	return &memSettingsStore{settings: map[string]*model.IntegrationSetting{}}
}

func (m *memSettingsStore) GetSettings(integrationType string) (*model.IntegrationSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	setting, ok := m.settings[integrationType]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	snapshot := *setting
	return &snapshot, nil
}

func (m *memSettingsStore) UpsertSettings(setting *model.IntegrationSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *setting
	m.settings[setting.Type] = &snapshot
	return nil
}

type memContactStore struct {
	contacts []model.Contact
	statuses map[string]string
}

func newMemContactStore(contacts ...model.Contact) *memContactStore {
	return &memContactStore{contacts: contacts, statuses: map[string]string{}}
}

func (m *memContactStore) GetContact(id string) (*model.Contact, error) {
	for i := range m.contacts {
		if m.contacts[i].ID == id {
			return &m.contacts[i], nil
		}
	}
	return nil, store.ErrContactNotFound
}

func (m *memContactStore) ListContacts() ([]model.Contact, error) {
	return m.contacts, nil
}

func (m *memContactStore) MarkContactSynced(id string) error {
	m.statuses[id] = model.RecordSyncSynced
	return nil
}

func (m *memContactStore) MarkContactSyncFailed(id string) error {
	m.statuses[id] = model.RecordSyncFailed
	return nil
}

type memDeviceStore struct {
	devices map[string]model.Device
}

func newMemDeviceStore() *memDeviceStore {
	return &memDeviceStore{devices: map[string]model.Device{}}
}

func (m *memDeviceStore) UpsertDevice(device *model.Device) error {
	m.devices[device.SerialNumber] = *device
	return nil
}

func (m *memDeviceStore) ListDevices() ([]model.Device, error) {
	var out []model.Device
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out, nil
}

type memSyncRunStore struct {
	mu   sync.Mutex
	runs map[string]*model.SyncRun
}

func newMemSyncRunStore() *memSyncRunStore {
	return &memSyncRunStore{runs: map[string]*model.SyncRun{}}
}

func (m *memSyncRunStore) CreateSyncRun(run *model.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *run
	m.runs[run.ID] = &snapshot
	return nil
}

func (m *memSyncRunStore) UpdateSyncRun(run *model.SyncRun) error {
	return m.CreateSyncRun(run)
}

func (m *memSyncRunStore) GetSyncRun(id string) (*model.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, store.ErrSyncRunNotFound
	}
	return run, nil
}

func (m *memSyncRunStore) LatestSyncRun(kind model.SyncKind) (*model.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.SyncRun
	for _, run := range m.runs {
		if run.Kind != kind {
			continue
		}
		if latest == nil || run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, store.ErrSyncRunNotFound
	}
	return latest, nil
}

func (m *memSyncRunStore) ListSyncRuns(kind model.SyncKind, limit int) ([]model.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SyncRun
	for _, run := range m.runs {
		if run.Kind == kind {
			out = append(out, *run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
