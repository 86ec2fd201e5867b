package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultTemperature = 0.7

// Schema describes the JSON object a structured-generation call must return.
// Definition is a plain JSON-Schema object map so each provider can bind it
// natively (OpenAI response_format) or inline it into the prompt.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

// StructuredResult carries the model's JSON text plus the raw provider
// response body for the diagnostic log.
type StructuredResult struct {
	Text string
	Raw  json.RawMessage
}

// Client is the structured-generation contract shared by all providers.
type Client interface {
	Provider() string
	Model() string
	GenerateStructured(ctx context.Context, prompt string, schema Schema) (*StructuredResult, error)
}

// NewClient selects the backend from the AI_PROVIDER setting. A missing
// credential for the selected provider is a configuration error reported
// before any network call.
func NewClient(provider, openaiModel, anthropicModel, geminiModel string, temperature float64) (Client, error) {
	if temperature == 0 {
		temperature = defaultTemperature
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic", "claude":
		return NewAnthropicClient(anthropicModel, temperature)
	case "gemini", "google":
		return NewGeminiClient(geminiModel, temperature)
	case "openai", "gpt", "":
		return NewOpenAIClient(openaiModel, temperature)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
}

// instructionSuffix inlines the schema for providers without a native
// structured-output mode.
func instructionSuffix(schema Schema) string {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return "\n\nRespond with a single valid JSON object and nothing else."
	}
	return fmt.Sprintf("\n\nRespond with a single valid JSON object matching this JSON schema, and nothing else:\n%s", def)
}

// CleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON output.
func CleanJSONResponse(txt string) string {
	s := strings.TrimSpace(txt)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
