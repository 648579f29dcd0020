package directory

import (
	"strings"
	"sync"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

type fakeSettingsStore struct {
	setting *model.IntegrationSetting
}

func (f *fakeSettingsStore) GetSettings(integrationType string) (*model.IntegrationSetting, error) {
	if f.setting == nil || f.setting.Type != integrationType {
		return nil, store.ErrSettingsNotFound
	}
	return f.setting, nil
}

func (f *fakeSettingsStore) UpsertSettings(setting *model.IntegrationSetting) error {
	f.setting = setting
	return nil
}

type fakeContactStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	statuses map[string]string
}

func newFakeContactStore(contacts ...model.Contact) *fakeContactStore {
	return &fakeContactStore{contacts: contacts, statuses: map[string]string{}}
}

func (f *fakeContactStore) GetContact(id string) (*model.Contact, error) {
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			return &f.contacts[i], nil
		}
	}
	return nil, store.ErrContactNotFound
}

func (f *fakeContactStore) ListContacts() ([]model.Contact, error) {
	return f.contacts, nil
}

func (f *fakeContactStore) MarkContactSynced(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = model.RecordSyncSynced
	return nil
}

func (f *fakeContactStore) MarkContactSyncFailed(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = model.RecordSyncFailed
	return nil
}

type fakeDeviceStore struct {
	mu      sync.Mutex
	devices map[string]model.Device
}

func newFakeDeviceStore() *fakeDeviceStore {
	return &fakeDeviceStore{devices: map[string]model.Device{}}
}

func (f *fakeDeviceStore) UpsertDevice(device *model.Device) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	device.SerialNumber = strings.ToUpper(device.SerialNumber)
	f.devices[device.SerialNumber] = *device
	return nil
}

func (f *fakeDeviceStore) ListDevices() ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	devices := make([]model.Device, 0, len(f.devices))
	for _, d := range f.devices {
		devices = append(devices, d)
	}
	return devices, nil
}

type fakeSyncRunStore struct {
	mu   sync.Mutex
	runs map[string]*model.SyncRun
}

func newFakeSyncRunStore() *fakeSyncRunStore {
	return &fakeSyncRunStore{runs: map[string]*model.SyncRun{}}
}

func (f *fakeSyncRunStore) CreateSyncRun(run *model.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *run
	f.runs[run.ID] = &stored
	return nil
}

func (f *fakeSyncRunStore) UpdateSyncRun(run *model.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *run
	f.runs[run.ID] = &stored
	return nil
}

func (f *fakeSyncRunStore) GetSyncRun(id string) (*model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, store.ErrSyncRunNotFound
	}
	return run, nil
}

func (f *fakeSyncRunStore) LatestSyncRun(kind model.SyncKind) (*model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.SyncRun
	for _, run := range f.runs {
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

func (f *fakeSyncRunStore) ListSyncRuns(kind model.SyncKind, limit int) ([]model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var runs []model.SyncRun
	for _, run := range f.runs {
		if run.Kind == kind {
			runs = append(runs, *run)
		}
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
