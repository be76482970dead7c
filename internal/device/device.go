// Package device derives human-readable device names from User-Agent strings
// for audit events.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent turns a raw User-Agent header into a short display name like
// "Chrome on Mac OS X" or "Safari on iPhone". Unknown or empty agents map to
// "Unknown Device".
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	}
	if fields := strings.Fields(rawUA); len(fields) > 0 {
		return fields[0]
	}
	return "Unknown Device"
}
