package intel

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// LLM is the minimal contract this package needs from the language model.
// Every call requests a JSON object response.
type LLM interface {
	GenerateJSON(ctx context.Context, system, prompt string) ([]byte, error)
	GenerateJSONFromImage(ctx context.Context, data []byte, mimeType, prompt string) ([]byte, error)
}

// GeminiClient implements LLM on top of the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) GenerateJSON(ctx context.Context, system, prompt string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}
	return []byte(text), nil
}

func (c *GeminiClient) GenerateJSONFromImage(ctx context.Context, data []byte, mimeType, prompt string) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("image analysis failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}
	return []byte(text), nil
}
