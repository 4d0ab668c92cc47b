package login

import (
	"strings"

	"github.com/mssola/useragent"
)

// DeviceLabel renders a short human-readable label for the logging-in device,
// stored on the principal record so users can recognize their own sessions.
func DeviceLabel(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown browser"
	}

	os := strings.TrimSpace(ua.OS())
	if os == "" {
		os = "unknown OS"
	}

	label := browser + " on " + os
	if ua.Mobile() {
		label += " (mobile)"
	}
	return label
}
