package classify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/rcliao/arsip-kita/internal/model"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider classifies text with the Gemini generateContent API. The
// response schema restricts mood to the known set.
type GeminiProvider struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiProvider creates a Gemini classifier. An empty baseURL uses the
// public endpoint.
func NewGeminiProvider(baseURL, apiKey, modelName string) (*GeminiProvider, error) {
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	moods := make([]string, len(model.Moods))
	for i, m := range model.Moods {
		moods[i] = string(m)
	}

	return &GeminiProvider{
		client: client,
		model:  modelName,
		config: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"mood":  {Type: genai.TypeString, Enum: moods},
					"color": {Type: genai.TypeString},
				},
				Required: []string{"mood", "color"},
			},
		},
	}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Classify(ctx context.Context, text string) (Result, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt(text)), p.config)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	return parseAnswer(resp.Text())
}
