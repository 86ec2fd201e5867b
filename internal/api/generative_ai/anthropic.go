package generativeAI

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	anthropicMessagesEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion          = "2023-06-01"
	anthropicMaxTokens        = 4096
)

type AnthropicClient struct {
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

func NewAnthropicClient(model string, temperature float64) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required when using the Anthropic provider")
	}
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicClient{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
	}, nil
}

func (c *AnthropicClient) Provider() string { return "anthropic" }
func (c *AnthropicClient) Model() string    { return c.model }

func (c *AnthropicClient) GenerateStructured(ctx context.Context, prompt string, schema Schema) (*StructuredResult, error) {
	// The Messages API has no response_format; the schema is inlined into the
	// prompt and the fenced-JSON cleanup handles the rest.
	payload := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  anthropicMaxTokens,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt + instructionSuffix(schema)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errPayload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &errPayload) == nil && errPayload.Error.Message != "" {
			return nil, errors.New(errPayload.Error.Message)
		}
		return nil, fmt.Errorf("anthropic api error: %s", resp.Status)
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}

	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			return &StructuredResult{
				Text: CleanJSONResponse(block.Text),
				Raw:  json.RawMessage(raw),
			}, nil
		}
	}
	return nil, errors.New("anthropic returned an empty message")
}
