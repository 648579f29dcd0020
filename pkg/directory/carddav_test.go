package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffdir/staffdir/pkg/model"
)

func TestNormalizeGoogleURL(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		username string
		want     string
	}{
		{
			name:     "discovery URL rewritten to principals endpoint",
			url:      "https://www.googleapis.com/.well-known/carddav",
			username: "user@gmail.com",
			want:     "https://www.googleapis.com/carddav/v1/principals/user@gmail.com/lists/default/",
		},
		{
			name:     "google endpoint gains trailing slash",
			url:      "https://www.googleapis.com/carddav/v1/principals/user@gmail.com/lists/default",
			username: "user@gmail.com",
			want:     "https://www.googleapis.com/carddav/v1/principals/user@gmail.com/lists/default/",
		},
		{
			name:     "non-google URL untouched",
			url:      "https://dav.example.com/addressbooks/alice",
			username: "alice",
			want:     "https://dav.example.com/addressbooks/alice",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeGoogleURL(tc.url, tc.username))
		})
	}
}

func TestNormalizePassword(t *testing.T) {
	// App passwords are shown in groups of four separated by spaces.
	assert.Equal(t, "abcdefghijklmnop", normalizePassword("abcd efgh ijkl mnop"))
	assert.Equal(t, "plain", normalizePassword("plain"))
	assert.Equal(t, "", normalizePassword(""))
}

func TestBuildVCard(t *testing.T) {
	contact := &model.Contact{
		ID:         "c-1",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Phone:      "+44 20 7946 0000",
		Title:      "Principal Engineer",
		Department: "Engineering",
		Company:    "Example Corp",
		LinkedIn:   "https://linkedin.com/in/ada",
		Notes:      "First programmer",
	}

	vcard := BuildVCard(contact)
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Ada Lovelace",
		"N:Lovelace;Ada;;;",
		"EMAIL:ada@example.com",
		"TEL:+44 20 7946 0000",
		"ORG:Engineering",
		"TITLE:Principal Engineer",
		"X-DEPARTMENT:Engineering",
		"URL:https://linkedin.com/in/ada",
		"NOTE:First programmer",
		"END:VCARD",
	}
	assert.Equal(t, joinCRLF(lines), vcard)
}

func TestBuildVCardFreeFormName(t *testing.T) {
	contact := &model.Contact{
		ID:    "c-2",
		Name:  "Grace Brewster Hopper",
		Email: "grace@example.com",
	}

	vcard := BuildVCard(contact)
	assert.Contains(t, vcard, "FN:Grace Brewster Hopper")
	assert.Contains(t, vcard, "N:Hopper;Grace Brewster;;;")
}

func TestBuildVCardCompanyFallback(t *testing.T) {
	contact := &model.Contact{
		ID:        "c-3",
		FirstName: "Bob",
		LastName:  "Builder",
		Company:   "Example Corp",
	}

	vcard := BuildVCard(contact)
	assert.Contains(t, vcard, "ORG:Example Corp")
	assert.NotContains(t, vcard, "X-DEPARTMENT")
}

func joinCRLF(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\r\n"
		}
		out += line
	}
	return out
}
