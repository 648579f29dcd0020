package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/staffdir/config"
	ConfigFileName    = "staffdir.yml"
)

// ValidIntegrationTypes is the list of directory systems staffdir can sync
// against.
var ValidIntegrationTypes = []string{"carddav", "mdm"}

// Config holds all staffdir configuration settings.
type Config struct {
	// ShareLinkTTLDefaultSeconds is the TTL applied when issuance omits one
	ShareLinkTTLDefaultSeconds int `yaml:"share_link_ttl_default_seconds" json:"share_link_ttl_default_seconds"`

	// ShareLinkTTLMinSeconds is the lowest TTL issuance accepts
	ShareLinkTTLMinSeconds int `yaml:"share_link_ttl_min_seconds" json:"share_link_ttl_min_seconds"`

	// ShareLinkTTLMaxSeconds is the highest TTL issuance accepts
	ShareLinkTTLMaxSeconds int `yaml:"share_link_ttl_max_seconds" json:"share_link_ttl_max_seconds"`

	// SyncRequestTimeoutSeconds bounds every outbound directory call
	SyncRequestTimeoutSeconds int `yaml:"sync_request_timeout_seconds" json:"sync_request_timeout_seconds"`

	// SyncFailureDetailLimit bounds the failure list kept per sync run
	SyncFailureDetailLimit int `yaml:"sync_failure_detail_limit" json:"sync_failure_detail_limit"`

	// ScanEnrichmentEnabled toggles background geolocation/client enrichment
	ScanEnrichmentEnabled bool `yaml:"scan_enrichment_enabled" json:"scan_enrichment_enabled"`

	// AdminGroup is the bearer-claims group required for settings writes
	AdminGroup string `yaml:"admin_group" json:"admin_group"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	return &Config{
		ShareLinkTTLDefaultSeconds: 120,
		ShareLinkTTLMinSeconds:     30,
		ShareLinkTTLMaxSeconds:     86400,
		SyncRequestTimeoutSeconds:  15,
		SyncFailureDetailLimit:     50,
		ScanEnrichmentEnabled:      true,
		AdminGroup:                 "staffdir-admins",
		sources:                    make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("STAFFDIR_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"share_link_ttl_default_seconds", "share_link_ttl_min_seconds",
		"share_link_ttl_max_seconds", "sync_request_timeout_seconds",
		"sync_failure_detail_limit", "scan_enrichment_enabled", "admin_group",
	}
}

// fileConfig mirrors Config for yaml decoding. The bool is a pointer so an
// explicit false in the file is distinguishable from absence; the int and
// string fields rely on the zero-value guard instead.
type fileConfig struct {
	ShareLinkTTLDefaultSeconds int    `yaml:"share_link_ttl_default_seconds"`
	ShareLinkTTLMinSeconds     int    `yaml:"share_link_ttl_min_seconds"`
	ShareLinkTTLMaxSeconds     int    `yaml:"share_link_ttl_max_seconds"`
	SyncRequestTimeoutSeconds  int    `yaml:"sync_request_timeout_seconds"`
	SyncFailureDetailLimit     int    `yaml:"sync_failure_detail_limit"`
	ScanEnrichmentEnabled      *bool  `yaml:"scan_enrichment_enabled"`
	AdminGroup                 string `yaml:"admin_group"`
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.ShareLinkTTLDefaultSeconds != 0 {
		c.ShareLinkTTLDefaultSeconds = file.ShareLinkTTLDefaultSeconds
		c.sources["share_link_ttl_default_seconds"] = "file"
	}
	if file.ShareLinkTTLMinSeconds != 0 {
		c.ShareLinkTTLMinSeconds = file.ShareLinkTTLMinSeconds
		c.sources["share_link_ttl_min_seconds"] = "file"
	}
	if file.ShareLinkTTLMaxSeconds != 0 {
		c.ShareLinkTTLMaxSeconds = file.ShareLinkTTLMaxSeconds
		c.sources["share_link_ttl_max_seconds"] = "file"
	}
	if file.SyncRequestTimeoutSeconds != 0 {
		c.SyncRequestTimeoutSeconds = file.SyncRequestTimeoutSeconds
		c.sources["sync_request_timeout_seconds"] = "file"
	}
	if file.SyncFailureDetailLimit != 0 {
		c.SyncFailureDetailLimit = file.SyncFailureDetailLimit
		c.sources["sync_failure_detail_limit"] = "file"
	}
	if file.ScanEnrichmentEnabled != nil {
		c.ScanEnrichmentEnabled = *file.ScanEnrichmentEnabled
		c.sources["scan_enrichment_enabled"] = "file"
	}
	if file.AdminGroup != "" {
		c.AdminGroup = file.AdminGroup
		c.sources["admin_group"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("STAFFDIR_SHARE_LINK_TTL_DEFAULT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ShareLinkTTLDefaultSeconds = i
			c.sources["share_link_ttl_default_seconds"] = "environment"
		}
	}
	if val := os.Getenv("STAFFDIR_SHARE_LINK_TTL_MIN_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ShareLinkTTLMinSeconds = i
			c.sources["share_link_ttl_min_seconds"] = "environment"
		}
	}
	if val := os.Getenv("STAFFDIR_SHARE_LINK_TTL_MAX_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ShareLinkTTLMaxSeconds = i
			c.sources["share_link_ttl_max_seconds"] = "environment"
		}
	}
	if val := os.Getenv("STAFFDIR_SYNC_REQUEST_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SyncRequestTimeoutSeconds = i
			c.sources["sync_request_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("STAFFDIR_SYNC_FAILURE_DETAIL_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SyncFailureDetailLimit = i
			c.sources["sync_failure_detail_limit"] = "environment"
		}
	}
	if val := os.Getenv("STAFFDIR_SCAN_ENRICHMENT_ENABLED"); val != "" {
		c.ScanEnrichmentEnabled = val == "true" || val == "1"
		c.sources["scan_enrichment_enabled"] = "environment"
	}
	if val := os.Getenv("STAFFDIR_ADMIN_GROUP"); val != "" {
		c.AdminGroup = val
		c.sources["admin_group"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ShareLinkTTLDefault returns the default share link TTL as a duration.
func (c *Config) ShareLinkTTLDefault() time.Duration {
	return time.Duration(c.ShareLinkTTLDefaultSeconds) * time.Second
}

// SyncRequestTimeout returns the outbound call timeout as a duration.
func (c *Config) SyncRequestTimeout() time.Duration {
	return time.Duration(c.SyncRequestTimeoutSeconds) * time.Second
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ShareLinkTTLMinSeconds < 1 {
		return fmt.Errorf("share_link_ttl_min_seconds must be positive, got %d", c.ShareLinkTTLMinSeconds)
	}
	if c.ShareLinkTTLMaxSeconds < c.ShareLinkTTLMinSeconds {
		return fmt.Errorf("share_link_ttl_max_seconds (%d) must not be below share_link_ttl_min_seconds (%d)",
			c.ShareLinkTTLMaxSeconds, c.ShareLinkTTLMinSeconds)
	}
	if c.ShareLinkTTLDefaultSeconds < c.ShareLinkTTLMinSeconds || c.ShareLinkTTLDefaultSeconds > c.ShareLinkTTLMaxSeconds {
		return fmt.Errorf("share_link_ttl_default_seconds (%d) must fall within [%d, %d]",
			c.ShareLinkTTLDefaultSeconds, c.ShareLinkTTLMinSeconds, c.ShareLinkTTLMaxSeconds)
	}
	if c.SyncRequestTimeoutSeconds < 1 {
		return fmt.Errorf("sync_request_timeout_seconds must be positive, got %d", c.SyncRequestTimeoutSeconds)
	}
	if c.SyncFailureDetailLimit < 1 {
		return fmt.Errorf("sync_failure_detail_limit must be positive, got %d", c.SyncFailureDetailLimit)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "share_link_ttl_default_seconds", Value: strconv.Itoa(c.ShareLinkTTLDefaultSeconds), Source: c.Source("share_link_ttl_default_seconds")},
		{Name: "share_link_ttl_min_seconds", Value: strconv.Itoa(c.ShareLinkTTLMinSeconds), Source: c.Source("share_link_ttl_min_seconds")},
		{Name: "share_link_ttl_max_seconds", Value: strconv.Itoa(c.ShareLinkTTLMaxSeconds), Source: c.Source("share_link_ttl_max_seconds")},
		{Name: "sync_request_timeout_seconds", Value: strconv.Itoa(c.SyncRequestTimeoutSeconds), Source: c.Source("sync_request_timeout_seconds")},
		{Name: "sync_failure_detail_limit", Value: strconv.Itoa(c.SyncFailureDetailLimit), Source: c.Source("sync_failure_detail_limit")},
		{Name: "scan_enrichment_enabled", Value: strconv.FormatBool(c.ScanEnrichmentEnabled), Source: c.Source("scan_enrichment_enabled")},
		{Name: "admin_group", Value: c.AdminGroup, Source: c.Source("admin_group")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-36s %-20s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-36s %-20s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-36s %-20s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
