package mdconvert_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ronpik/website-fetch/internal/mdconvert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmptyInputReturnsEmptyString(t *testing.T) {
	out, err := mdconvert.Default("   ", "https://example.com")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDefault_HeadingAndListConversion(t *testing.T) {
	out, err := mdconvert.Default(`<h1>Title</h1><ul><li>one</li><li>two</li></ul>`, "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "- one")
}

func TestDefault_StripsScriptAndStyle(t *testing.T) {
	out, err := mdconvert.Default(`<p>hi</p><script>evil()</script><style>.x{color:red}</style>`, "https://example.com")
	require.NoError(t, err)
	assert.NotContains(t, out, "evil()")
	assert.NotContains(t, out, "color:red")
}

func TestRun_CustomPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := mdconvert.Run(mdconvert.StrategyCustom, "<p>x</p>", "https://example.com", func(html, pageURL string) (string, error) {
		return "", wantErr
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, wantErr))
}

func TestRun_CustomDelegatesOutput(t *testing.T) {
	out, err := mdconvert.Run(mdconvert.StrategyCustom, "<p>x</p>", "https://example.com", func(html, pageURL string) (string, error) {
		return "custom output", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "custom output", out)
}

func TestRun_DefaultStrategyFallsThrough(t *testing.T) {
	out, err := mdconvert.Run(mdconvert.StrategyDefault, "<p>hello</p>", "https://example.com", nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "hello"))
}
