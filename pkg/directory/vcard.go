package directory

import (
	"strings"

	"github.com/staffdir/staffdir/pkg/model"
)

// BuildVCard renders a contact as a vCard 3.0 document with CRLF line
// endings, the format CardDAV servers expect on PUT.
func BuildVCard(contact *model.Contact) string {
	fullName := contact.FullName()

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + fullName,
	}

	if contact.LastName != "" || contact.FirstName != "" {
		lines = append(lines, "N:"+contact.LastName+";"+contact.FirstName+";;;")
	} else if fullName != "" {
		// Free-form name only: treat the final word as the last name.
		last, first := splitName(fullName)
		lines = append(lines, "N:"+last+";"+first+";;;")
	}

	lines = append(lines, "EMAIL:"+contact.Email)
	lines = append(lines, "TEL:"+contact.Phone)

	if contact.Department != "" {
		lines = append(lines, "ORG:"+contact.Department)
	} else if contact.Company != "" {
		lines = append(lines, "ORG:"+contact.Company)
	}

	if contact.Title != "" {
		lines = append(lines, "TITLE:"+contact.Title)
	}

	if contact.Department != "" && contact.Company != "" && contact.Department != contact.Company {
		lines = append(lines, "X-DEPARTMENT:"+contact.Department)
	}

	if contact.LinkedIn != "" {
		lines = append(lines, "URL:"+contact.LinkedIn)
	}

	if contact.Notes != "" {
		lines = append(lines, "NOTE:"+contact.Notes)
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}

func splitName(fullName string) (last, first string) {
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return "", fullName
	}
	return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
}
