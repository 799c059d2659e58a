package gemini

import (
	"context"

	"github.com/mkowalski/docbase"
	"google.golang.org/genai"
)

const generationModel = "gemini-2.5-flash"

// Ensure Generator implements docbase.Generator at compile time.
var _ docbase.Generator = (*Generator)(nil)

// Generator produces text from prompts via the Gemini API.
type Generator struct {
	client *genai.Client
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces text for the prompt under the given system instruction.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	temp := float32(0.7)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, generationModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "generation request failed: %v", err)
	}
	if result == nil {
		return "", docbase.Errorf(docbase.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}
