package services

import (
	"encoding/base64"
	"net"
	"strings"
)

// SessionFingerprint derives the duplicate-submission identity from the
// caller's network address and user agent. The encoding is reversible on
// purpose: this is a coarse, spoofable deterrent, not a security boundary,
// and operators occasionally decode it when investigating abuse reports.
func SessionFingerprint(remoteAddr, userAgent string) string {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return base64.RawURLEncoding.EncodeToString([]byte(host + "|" + userAgent))
}
