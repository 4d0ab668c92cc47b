package tenant

import (
	"regexp"
	"strings"

	dErrors "campus/pkg/domain-errors"
)

// Status tracks whether a community accepts traffic.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant is a community record as returned by the backend.
// Read-only from the gateway's perspective; creation happens server-side.
type Tenant struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	OwnerEmail string `json:"owner_email,omitempty"`
	Status     Status `json:"status,omitempty"`
}

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// placeholderTokens are literals that leak out of unrendered route templates.
// A slug containing one of these is a template bug, never a real community.
var placeholderTokens = []string{"[", "]", "{", "}", "community-name"}

// ValidateSlug rejects slugs that must never reach the backend: empty or
// one-character strings, characters outside [a-zA-Z0-9-], and route-template
// placeholder leakage. Callers make no remote call on failure.
func ValidateSlug(slug string) error {
	if len(slug) < 2 {
		return dErrors.New(dErrors.CodeFormatInvalid, "community slug too short")
	}
	lowered := strings.ToLower(slug)
	for _, token := range placeholderTokens {
		if strings.Contains(lowered, token) {
			return dErrors.New(dErrors.CodeFormatInvalid, "community slug contains template placeholder")
		}
	}
	if !slugPattern.MatchString(slug) {
		return dErrors.New(dErrors.CodeFormatInvalid, "community slug has invalid characters")
	}
	return nil
}

// Slugify derives the URL-safe slug for a community display name:
// lowercase with spaces collapsed to hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
