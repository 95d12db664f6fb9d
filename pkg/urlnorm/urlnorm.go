// Package urlnorm implements the canonical URL form used everywhere a
// crawl needs to decide whether two URLs denote the "same" page: visited
// sets, link deduplication, and frontier admission.
//
// Canonicalize is pure, deterministic, and idempotent:
// Canonicalize(Canonicalize(u)) == Canonicalize(u).
package urlnorm

import (
	"net/url"
	"strings"
)

// Normalize parses raw and returns its canonical string form. A raw
// string that fails to parse is returned unchanged, per spec: dedup never
// panics or drops a URL it cannot make sense of.
func Normalize(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	canonical := Canonicalize(*parsed)
	return canonical.String()
}

// Canonicalize applies the canonical form to an already-parsed URL:
//   - host lowercased
//   - fragment and query dropped
//   - trailing "/" dropped from the path, except when the path is "/"
//   - default ports (80 for http, 443 for https) dropped
func Canonicalize(u url.URL) url.URL {
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)

	if host, port := u.Hostname(), u.Port(); port != "" {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			u.Host = host
		}
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false

	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		if u.Path == "" {
			u.Path = "/"
		}
	}

	return u
}
