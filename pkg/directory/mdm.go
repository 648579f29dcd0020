package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// DefaultMDMBaseURL is used when the integration settings don't override it
const DefaultMDMBaseURL = "https://businessapi.mosyle.com"

// MDMDevice is a device record as returned by the MDM provider's API
type MDMDevice struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	DeviceName   string      `json:"device_name"`
	SerialNumber string      `json:"serial_number"`
	Model        string      `json:"model"`
	DeviceModel  string      `json:"device_model"`
	OSVersion    string      `json:"os_version"`
}

// DisplayName returns the best available device name
func (d *MDMDevice) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.DeviceName != "" {
		return d.DeviceName
	}
	return "Unknown Device"
}

// DisplayModel returns the best available model identifier
func (d *MDMDevice) DisplayModel() string {
	if d.Model != "" {
		return d.Model
	}
	return d.DeviceModel
}

// MDMClient pulls device inventory from the MDM provider over a bearer
// token API
type MDMClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMDMClient builds a client for the MDM API. An empty baseURL selects
// the provider default.
func NewMDMClient(baseURL, apiKey string, client *http.Client) *MDMClient {
	if baseURL == "" {
		baseURL = DefaultMDMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &MDMClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// FetchDevices lists all devices known to the MDM provider
func (c *MDMClient) FetchDevices(ctx context.Context) ([]MDMDevice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/devices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Op: "mdm list devices", StatusCode: resp.StatusCode}
	}

	var payload struct {
		Devices []MDMDevice `json:"devices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Devices, nil
}

// Probe checks reachability and credentials with a read-only device listing
func (c *MDMClient) Probe(ctx context.Context) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/devices", nil)
	if err != nil {
		return ProbeUnreachable
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return ProbeUnreachable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ProbeAuthFailed
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return ProbeReachable
	default:
		return ProbeUnreachable
	}
}
