// Package scan records contact card scans with best-effort geo and device
// enrichment. Recording never blocks or fails the request that triggered it.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

const lookupTimeout = 4 * time.Second

// Recorder persists enriched scan events
type Recorder struct {
	events store.ScanEventStore
	logger *zap.Logger
	client *http.Client
}

// NewRecorder creates a scan recorder
func NewRecorder(events store.ScanEventStore, logger *zap.Logger) *Recorder {
	return &Recorder{
		events: events,
		logger: logger,
		client: &http.Client{Timeout: lookupTimeout},
	}
}

// Record captures a scan of a contact card in a detached goroutine and
// returns immediately. Enrichment and persistence failures are logged and
// otherwise ignored.
func (r *Recorder) Record(contactID, remoteIP, userAgent string) {
	go func() {
		event := r.buildEvent(contactID, remoteIP, userAgent)
		if err := r.events.CreateScanEvent(event); err != nil {
			r.logger.Warn("failed to record scan event",
				zap.String("contact", contactID),
				zap.Error(err))
		}
	}()
}

func (r *Recorder) buildEvent(contactID, remoteIP, userAgent string) *model.ScanEvent {
	ip := normalizeIP(remoteIP)
	location := r.lookupLocation(ip)
	device := parseUserAgent(userAgent)

	return &model.ScanEvent{
		ContactID:  contactID,
		IP:         ip,
		Country:    location.Country,
		Region:     location.Region,
		City:       location.City,
		DeviceType: device.Type,
		Browser:    device.Browser,
		OS:         device.OS,
		UserAgent:  userAgent,
	}
}

type location struct {
	Country string
	Region  string
	City    string
}

// lookupLocation resolves an IP to an approximate location using two free
// lookup services in turn. Private addresses short-circuit; every failure
// degrades to Unknown.
func (r *Recorder) lookupLocation(ip string) location {
	if ip == "" {
		return location{Country: "Unknown"}
	}
	if isPrivateIP(ip) {
		return location{Country: "Local Network"}
	}

	if loc, err := r.tryIPAPI(ip); err == nil {
		return loc
	} else {
		r.logger.Debug("geo lookup failed", zap.String("provider", "ip-api"), zap.Error(err))
	}

	if loc, err := r.tryIPAPICo(ip); err == nil {
		return loc
	} else {
		r.logger.Debug("geo lookup failed", zap.String("provider", "ipapi.co"), zap.Error(err))
	}

	return location{Country: "Unknown"}
}

func (r *Recorder) tryIPAPI(ip string) (location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	lookupURL := fmt.Sprintf("http://ip-api.com/json/%s?fields=status,country,regionName,city", url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return location{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return location{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Status     string `json:"status"`
		Country    string `json:"country"`
		RegionName string `json:"regionName"`
		City       string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return location{}, err
	}
	if payload.Status != "success" {
		return location{}, fmt.Errorf("lookup status %q", payload.Status)
	}
	return location{Country: payload.Country, Region: payload.RegionName, City: payload.City}, nil
}

func (r *Recorder) tryIPAPICo(ip string) (location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	lookupURL := fmt.Sprintf("https://ipapi.co/%s/json/", url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return location{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return location{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CountryName string `json:"country_name"`
		Region      string `json:"region"`
		City        string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return location{}, err
	}
	if payload.CountryName == "" {
		return location{}, fmt.Errorf("empty lookup result")
	}
	return location{Country: payload.CountryName, Region: payload.Region, City: payload.City}, nil
}

// normalizeIP strips the IPv4-mapped IPv6 prefix so private range checks
// work on the dotted form
func normalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	return strings.TrimPrefix(ip, "::ffff:")
}

func isPrivateIP(ip string) bool {
	if ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	if strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.") {
		return true
	}
	for i := 16; i <= 31; i++ {
		if strings.HasPrefix(ip, fmt.Sprintf("172.%d.", i)) {
			return true
		}
	}
	return false
}
