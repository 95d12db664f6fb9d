package llm_test

import (
	"context"
	"testing"

	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopProvider_AlwaysFails(t *testing.T) {
	var p llm.NopProvider
	_, err := p.Invoke(context.Background(), "hello", llm.Options{CallSite: "test"})
	require.Error(t, err)

	var out struct{}
	err = p.InvokeStructured(context.Background(), "hello", struct{}{}, llm.Options{CallSite: "test"}, &out)
	require.Error(t, err)
}

func TestSchemaOf_ReflectsStruct(t *testing.T) {
	type relevance struct {
		Relevant []int `json:"relevant"`
	}
	schema := llm.SchemaOf(&relevance{})
	require.NotNil(t, schema)
	assert.Contains(t, schema.Properties.Keys(), "relevant")
}

func TestOptions_WithTimeoutDefaultsWhenUnset(t *testing.T) {
	opts := llm.Options{CallSite: "test"}
	ctx, cancel := opts.WithTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.False(t, deadline.IsZero())
}
