package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	actions []string
	idx     int
}

func (p *scriptedProvider) Invoke(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return "a short summary", nil
}

func (p *scriptedProvider) InvokeStructured(ctx context.Context, prompt string, schema any, opts llm.Options, out any) error {
	// Only agent turns are scripted; the converter's selector and
	// optimizer calls fail so they fall back without consuming actions.
	if opts.CallSite != agentTurnCallSite {
		return errors.New("not scripted")
	}
	if p.idx >= len(p.actions) {
		return errors.New("no more scripted actions")
	}
	raw := p.actions[p.idx]
	p.idx++
	return json.Unmarshal([]byte(raw), out)
}

func TestRunAgent_TerminatesOnFetchMarkIrrelevantDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer server.Close()

	provider := &scriptedProvider{actions: []string{
		`{"tool":"fetchPage","url":"` + server.URL + `"}`,
		`{"tool":"markIrrelevant","url":"` + server.URL + `"}`,
		`{"tool":"done"}`,
	}}

	cfg, err := config.WithDefault(server.URL).
		WithMode(config.ModeAgent).
		WithDescription("test goal").
		WithRespectRobots(false).
		WithLLMProvider(provider).
		Build()
	require.NoError(t, err)

	engine := New(cfg, nil, nil)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Pages(), 0)
	assert.Len(t, result.Skipped(), 1)
	assert.Equal(t, "Marked irrelevant by agent", result.Skipped()[0].Reason())
}
