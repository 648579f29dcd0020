package scan

import (
	"strings"
)

type deviceInfo struct {
	Type    string
	Browser string
	OS      string
}

// parseUserAgent extracts a coarse device type, browser, and OS from a
// User-Agent header. It covers the mainstream agents; anything unknown is
// reported as a desktop with empty browser/OS rather than an error.
func parseUserAgent(userAgent string) deviceInfo {
	if userAgent == "" {
		return deviceInfo{}
	}

	ua := strings.ToLower(userAgent)
	info := deviceInfo{Type: "desktop"}

	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		info.Type = "tablet"
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		info.Type = "mobile"
	}

	switch {
	case strings.Contains(ua, "edg/"):
		info.Browser = "Edge " + versionAfter(userAgent, "Edg/")
	case strings.Contains(ua, "opr/"):
		info.Browser = "Opera " + versionAfter(userAgent, "OPR/")
	case strings.Contains(ua, "chrome/"):
		info.Browser = "Chrome " + versionAfter(userAgent, "Chrome/")
	case strings.Contains(ua, "firefox/"):
		info.Browser = "Firefox " + versionAfter(userAgent, "Firefox/")
	case strings.Contains(ua, "safari/") && strings.Contains(ua, "version/"):
		info.Browser = "Safari " + versionAfter(userAgent, "Version/")
	}
	info.Browser = strings.TrimSpace(info.Browser)

	switch {
	case strings.Contains(ua, "iphone os") || strings.Contains(ua, "cpu os"):
		info.OS = "iOS"
	case strings.Contains(ua, "android"):
		info.OS = "Android"
	case strings.Contains(ua, "mac os x"):
		info.OS = "macOS"
	case strings.Contains(ua, "windows nt"):
		info.OS = "Windows"
	case strings.Contains(ua, "linux"):
		info.OS = "Linux"
	}

	return info
}

// versionAfter returns the dotted version number immediately following a
// marker like "Chrome/"
func versionAfter(userAgent, marker string) string {
	idx := strings.Index(userAgent, marker)
	if idx < 0 {
		return ""
	}
	rest := userAgent[idx+len(marker):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}
