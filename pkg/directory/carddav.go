package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/staffdir/staffdir/pkg/model"
)

const propfindBody = `<?xml version="1.0" encoding="UTF-8"?>
<d:propfind xmlns:d="DAV:" xmlns:card="urn:ietf:params:xml:ns:carddav">
  <d:prop>
    <d:resourcetype/>
    <d:displayname/>
  </d:prop>
</d:propfind>`

// CardDAVClient pushes contacts to a CardDAV address book over HTTP basic
// auth
type CardDAVClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewCardDAVClient builds a client from an address book URL and credentials.
// The URL and password are normalized for Google accounts: the well-known
// discovery URL is rewritten to the principals endpoint, and spaces are
// stripped from app passwords.
func NewCardDAVClient(baseURL, username, password string, client *http.Client) *CardDAVClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CardDAVClient{
		baseURL:  normalizeGoogleURL(baseURL, username),
		username: username,
		password: normalizePassword(password),
		client:   client,
	}
}

// PutContact creates or replaces the vCard for a contact
func (c *CardDAVClient) PutContact(ctx context.Context, contact *model.Contact) error {
	vcard := BuildVCard(contact)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contactURL(contact.ID), strings.NewReader(vcard))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/vcard")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Op: "carddav put", StatusCode: resp.StatusCode}
	}
	return nil
}

// DeleteContact removes the vCard for a contact. A 404 from the server means
// the card is already gone and counts as success.
func (c *CardDAVClient) DeleteContact(ctx context.Context, contactID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.contactURL(contactID), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode > 299) && resp.StatusCode != http.StatusNotFound {
		return &UpstreamError{Op: "carddav delete", StatusCode: resp.StatusCode}
	}
	return nil
}

// Probe issues a depth-0 PROPFIND against the address book without mutating
// anything
func (c *CardDAVClient) Probe(ctx context.Context) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", c.baseURL, strings.NewReader(propfindBody))
	if err != nil {
		return ProbeUnreachable
	}
	req.Header.Set("Depth", "0")
	req.Header.Set("Content-Type", "application/xml")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return ProbeUnreachable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ProbeAuthFailed
	case resp.StatusCode == http.StatusMultiStatus || (resp.StatusCode >= 200 && resp.StatusCode <= 299):
		return ProbeReachable
	default:
		return ProbeUnreachable
	}
}

func (c *CardDAVClient) contactURL(contactID string) string {
	return fmt.Sprintf("%s%s.vcf", c.baseURL, contactID)
}

// normalizeGoogleURL rewrites the Google well-known discovery URL to the
// per-user principals endpoint and ensures Google endpoint URLs end with a
// slash. Non-Google URLs pass through untouched.
func normalizeGoogleURL(rawURL, username string) string {
	if !strings.Contains(rawURL, "googleapis.com") {
		return rawURL
	}
	if strings.Contains(rawURL, "/.well-known/carddav") {
		return fmt.Sprintf("https://www.googleapis.com/carddav/v1/principals/%s/lists/default/",
			url.PathEscape(username))
	}
	if !strings.HasSuffix(rawURL, "/") {
		return rawURL + "/"
	}
	return rawURL
}

// normalizePassword strips whitespace from a password. Google app passwords
// are displayed with spaces but used without them.
func normalizePassword(password string) string {
	return strings.Join(strings.Fields(password), "")
}
