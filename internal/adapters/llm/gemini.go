package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/lawlab/intake-agent/internal/domain"
)

// GenerationParams are the fixed sampling settings applied to every
// call. They come from config once; there is no per-request tuning.
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// GeminiClient implements domain.LLMClient on the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	params    GenerationParams
}

// NewGeminiClient creates an LLM client using API-key access.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, params GenerationParams) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, domain.Configuration("llm.new", "gemini api key is not set", nil)
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.Configuration("llm.new", "creating gemini client", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		params:    params,
	}, nil
}

// GenerateReply implements domain.LLMClient. The leading system turn
// becomes the SystemInstruction; the rest map to user/model contents
// in order.
func (g *GeminiClient) GenerateReply(ctx context.Context, turns []domain.Turn) (string, error) {
	var system string
	var contents []*genai.Content

	for _, t := range turns {
		if t.Role == domain.RoleSystem {
			system = t.Text
			continue
		}

		role := genai.Role(genai.RoleUser)
		if t.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if t.Text != "" {
			parts = append(parts, genai.NewPartFromText(t.Text))
		}
		if t.Attachment != nil {
			parts = append(parts, genai.NewPartFromBytes(t.Attachment.Data, t.Attachment.MIMEType))
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}

	if len(contents) == 0 {
		return "", domain.Validation("llm.generate", "no turns to send")
	}

	temp := g.params.Temperature
	topP := g.params.TopP

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: g.params.MaxOutputTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", domain.Upstream("llm.generate", "gemini generate content", err)
	}

	text := res.Text()
	if text == "" {
		return "", domain.Upstream("llm.generate", "gemini returned empty text", fmt.Errorf("no candidates"))
	}

	return text, nil
}

// Probe implements domain.LLMProber with a minimal token count call,
// cheap enough to run from the health endpoint.
func (g *GeminiClient) Probe(ctx context.Context) error {
	contents := []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)}
	if _, err := g.client.Models.CountTokens(ctx, g.modelName, contents, nil); err != nil {
		return domain.Upstream("llm.probe", "gemini count tokens", err)
	}
	return nil
}
