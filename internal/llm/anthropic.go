package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = anthropic.ModelClaude3_5HaikuLatest

// AnthropicProvider is the production Provider, backed by
// github.com/anthropics/anthropic-sdk-go. It is the only concrete
// Provider this crawler ships; structured output is obtained by
// appending the target JSON Schema to the prompt and requiring the
// model to answer with JSON only, since the call sites here need
// small, cheap structured answers rather than full tool-use.
type AnthropicProvider struct {
	client    anthropic.Client
	maxTokens int64
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...), maxTokens: 4096}
}

func (p *AnthropicProvider) Invoke(ctx context.Context, prompt string, opts Options) (string, error) {
	callCtx, cancel := opts.WithTimeout(ctx)
	defer cancel()

	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	message, err := p.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &Error{CallSite: opts.CallSite, Underlying: err}
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (p *AnthropicProvider) InvokeStructured(ctx context.Context, prompt string, schema any, opts Options, out any) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return &Error{CallSite: opts.CallSite, Underlying: err}
	}

	structuredPrompt := fmt.Sprintf(
		"%s\n\nRespond with JSON only, matching exactly this schema, no surrounding prose:\n%s",
		prompt, string(schemaJSON),
	)

	raw, err := p.Invoke(ctx, structuredPrompt, opts)
	if err != nil {
		return err
	}

	if jsonErr := json.Unmarshal([]byte(extractJSON(raw)), out); jsonErr != nil {
		return &Error{CallSite: opts.CallSite, Underlying: jsonErr}
	}
	return nil
}

// extractJSON trims any prose the model wraps the JSON body in by
// slicing from the first '{' or '[' to the matching final '}' or ']'.
func extractJSON(raw string) string {
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}
	end := strings.LastIndexAny(raw, "}]")
	if end < start {
		return raw
	}
	return raw[start : end+1]
}
