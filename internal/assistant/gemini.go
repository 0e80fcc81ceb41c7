package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiConfig selects the models and persona of the Gemini backend.
type GeminiConfig struct {
	APIKey            string
	ChatModel         string
	ImageModel        string
	SystemInstruction string
}

// Gemini is the Backend on the Google generative AI API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGemini connects a client. Close it when done.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) chat(past []Message) *genai.ChatSession {
	model := g.client.GenerativeModel(g.cfg.ChatModel)
	if g.cfg.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(g.cfg.SystemInstruction)}}
	}
	cs := model.StartChat()
	cs.History = toContents(past)
	return cs
}

func (g *Gemini) Generate(ctx context.Context, past []Message, prompt string) (string, error) {
	resp, err := g.chat(past).SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func (g *Gemini) Stream(ctx context.Context, past []Message, prompt string, onChunk func(string)) error {
	it := g.chat(past).SendMessageStream(ctx, genai.Text(prompt))
	for {
		resp, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if text := responseText(resp); text != "" {
			onChunk(text)
		}
	}
}

func (g *Gemini) Image(ctx context.Context, prompt string, size ImageSize) (*Image, error) {
	model := g.client.GenerativeModel(g.cfg.ImageModel)
	resp, err := model.GenerateContent(ctx, genai.Text(imagePrompt(prompt, size)))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return &Image{MIMEType: blob.MIMEType, Data: blob.Data}, nil
			}
		}
	}
	return nil, nil
}

// The SDK has no image size option, so the size and aspect go into the prompt.
func imagePrompt(prompt string, size ImageSize) string {
	return fmt.Sprintf("%s\n\nRender a square 1:1 image at %s resolution.", strings.TrimSpace(prompt), size.Resolution())
}

func toContents(past []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(past))
	for _, m := range past {
		role := string(RoleUser)
		if m.Role == RoleModel {
			role = string(RoleModel)
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Text)}})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	return b.String()
}
