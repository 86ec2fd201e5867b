package generativeAI

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
}

func NewGeminiClient(model string, temperature float64) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_GEMINI_API_KEY is required when using the Gemini provider")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }
func (c *GeminiClient) Model() string    { return c.model }

func (c *GeminiClient) GenerateStructured(ctx context.Context, prompt string, schema Schema) (*StructuredResult, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](float32(c.temperature)),
		ResponseMIMEType: "application/json",
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt+instructionSuffix(schema)), config)
	if err != nil {
		return nil, err
	}

	txt := CleanJSONResponse(result.Text())
	if txt == "" {
		return nil, errors.New("gemini returned an empty response")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		raw = nil
	}

	return &StructuredResult{
		Text: txt,
		Raw:  raw,
	}, nil
}
