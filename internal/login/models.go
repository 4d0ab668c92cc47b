package login

import (
	"campus/internal/session"
	"campus/internal/tenant"
)

// Probe is the transient outcome of an email classification.
// Each new probe supersedes the previous one; stale results are discarded.
type Probe struct {
	Recognized bool
	Kind       session.Kind
	Tenant     *tenant.Tenant
}

// SubmitRequest carries one login attempt from the form.
type SubmitRequest struct {
	Email     string
	Password  string
	UserAgent string

	// Hint is the latest probe outcome. A recognized hint routes the attempt
	// straight to the matching account class and overrides any manual
	// selection the user made earlier.
	Hint Probe
}
