package scan

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/model"
)

type captureStore struct {
	mu     sync.Mutex
	events []*model.ScanEvent
	saved  chan struct{}
	fail   bool
}

func newCaptureStore() *captureStore {
	return &captureStore{saved: make(chan struct{}, 1)}
}

func (c *captureStore) CreateScanEvent(event *model.ScanEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		c.saved <- struct{}{}
		return assert.AnError
	}
	c.events = append(c.events, event)
	c.saved <- struct{}{}
	return nil
}

func TestRecordIsDetached(t *testing.T) {
	events := newCaptureStore()
	recorder := NewRecorder(events, zap.NewNop())

	// Private IP: no external lookup happens.
	recorder.Record("c-1", "192.168.1.50", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

	select {
	case <-events.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("scan event was never persisted")
	}

	events.mu.Lock()
	defer events.mu.Unlock()
	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, "c-1", event.ContactID)
	assert.Equal(t, "192.168.1.50", event.IP)
	assert.Equal(t, "Local Network", event.Country)
	assert.Equal(t, "mobile", event.DeviceType)
	assert.Equal(t, "iOS", event.OS)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	events := newCaptureStore()
	events.fail = true
	recorder := NewRecorder(events, zap.NewNop())

	// Must not panic or propagate anything.
	recorder.Record("c-1", "127.0.0.1", "")

	select {
	case <-events.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("store was never called")
	}
}

func TestParseUserAgent(t *testing.T) {
	testCases := []struct {
		name        string
		userAgent   string
		wantType    string
		wantBrowser string
		wantOS      string
	}{
		{
			name:        "chrome on windows",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantType:    "desktop",
			wantBrowser: "Chrome 120.0.0.0",
			wantOS:      "Windows",
		},
		{
			name:        "safari on iphone",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantType:    "mobile",
			wantBrowser: "Safari 17.0",
			wantOS:      "iOS",
		},
		{
			name:        "firefox on linux",
			userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantType:    "desktop",
			wantBrowser: "Firefox 121.0",
			wantOS:      "Linux",
		},
		{
			name:      "ipad",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15",
			wantType:  "tablet",
			wantOS:    "iOS",
		},
		{
			name:        "edge on mac",
			userAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91",
			wantType:    "desktop",
			wantBrowser: "Edge 120.0.2210.91",
			wantOS:      "macOS",
		},
		{
			name:      "empty",
			userAgent: "",
			wantType:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := parseUserAgent(tc.userAgent)
			assert.Equal(t, tc.wantType, info.Type)
			assert.Equal(t, tc.wantBrowser, info.Browser)
			assert.Equal(t, tc.wantOS, info.OS)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, isPrivateIP("127.0.0.1"))
	assert.True(t, isPrivateIP("10.1.2.3"))
	assert.True(t, isPrivateIP("192.168.0.1"))
	assert.True(t, isPrivateIP("172.16.0.1"))
	assert.True(t, isPrivateIP("172.31.255.1"))
	assert.False(t, isPrivateIP("172.32.0.1"))
	assert.False(t, isPrivateIP("8.8.8.8"))
}

func TestNormalizeIP(t *testing.T) {
	assert.Equal(t, "192.168.1.1", normalizeIP("::ffff:192.168.1.1"))
	assert.Equal(t, "203.0.113.7", normalizeIP(" 203.0.113.7 "))
}
