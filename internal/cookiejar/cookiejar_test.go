package cookiejar_test

import (
	"testing"

	"github.com/ronpik/website-fetch/internal/cookiejar"
	"github.com/stretchr/testify/assert"
)

const fixture = `# Netscape HTTP Cookie File
.example.com	true	/	false	0	session	abc123
docs.example.com	false	/guide	true	0	secure_token	xyz789

shop.example.com	false	/	false	9999999999	future	stays
shop.example.com	false	/	false	1	expired	gone
`

func TestHeader_SubdomainAndExactMatch(t *testing.T) {
	jar := cookiejar.Parse(fixture)
	assert.Equal(t, 4, jar.Len())

	header := jar.Header("www.example.com", "/docs", false)
	assert.Contains(t, header, "session=abc123")

	assert.Contains(t, jar.Header("example.com", "/", false), "session=abc123")
}

func TestHeader_SecureCookieRequiresHTTPS(t *testing.T) {
	jar := cookiejar.Parse(fixture)

	overHTTP := jar.Header("docs.example.com", "/guide/intro", false)
	assert.NotContains(t, overHTTP, "secure_token")

	overHTTPS := jar.Header("docs.example.com", "/guide/intro", true)
	assert.Contains(t, overHTTPS, "secure_token")
}

func TestHeader_ExpiredCookieExcluded(t *testing.T) {
	jar := cookiejar.Parse(fixture)

	header := jar.Header("shop.example.com", "/", false)
	assert.Contains(t, header, "future=stays")
	assert.NotContains(t, header, "expired=gone")
}

func TestHeader_PathMustBePrefix(t *testing.T) {
	jar := cookiejar.Parse(fixture)

	header := jar.Header("docs.example.com", "/other", true)
	assert.NotContains(t, header, "secure_token")
}
