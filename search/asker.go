package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkowalski/docbase"
)

// askContextChunks is how many retrieved chunks feed answer generation.
const askContextChunks = 5

// maxSources caps the source URLs attached to an answer.
const maxSources = 5

// maxContextChars truncates each context chunk fed to the generator.
const maxContextChars = 2000

var toneInstructions = map[string]string{
	"formal":    "Respond in a formal, professional manner.",
	"casual":    "Respond in a friendly, conversational manner.",
	"technical": "Respond with technical precision, using appropriate terminology.",
}

var lengthInstructions = map[string]string{
	"brief":    "Keep your response concise, around 2-3 sentences.",
	"detailed": "Provide a comprehensive answer with examples where appropriate.",
}

// Ensure Asker implements docbase.Asker at compile time.
var _ docbase.Asker = (*Asker)(nil)

// Asker answers natural language questions: retrieve context chunks, build
// a prompt and hand it to the generator.
type Asker struct {
	search    docbase.SearchService
	generator docbase.Generator
}

// NewAsker creates a new Asker.
func NewAsker(search docbase.SearchService, generator docbase.Generator) *Asker {
	return &Asker{search: search, generator: generator}
}

// Ask answers a question using retrieved documentation context.
func (a *Asker) Ask(ctx context.Context, question string, opts docbase.AskOptions) (*docbase.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "question required")
	}

	matches, err := a.search.Search(ctx, question, docbase.SearchOptions{
		Limit:    askContextChunks,
		Category: opts.Category,
		Topic:    opts.Topic,
	})
	if err != nil {
		return nil, err
	}

	system := buildSystemPrompt(matches, opts)
	prompt := buildUserPrompt(question)

	text, err := a.generator.Generate(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	answer := &docbase.Answer{Text: text}
	seenSources := make(map[string]bool)
	seenTopics := make(map[string]bool)
	for _, m := range matches {
		common := m.Chunk.Meta.Common()
		if common.SourceURL != "" && !seenSources[common.SourceURL] && len(answer.Sources) < maxSources {
			seenSources[common.SourceURL] = true
			answer.Sources = append(answer.Sources, common.SourceURL)
		}
		if common.Topic != "" && !seenTopics[common.Topic] {
			seenTopics[common.Topic] = true
			answer.Topics = append(answer.Topics, common.Topic)
		}
	}
	return answer, nil
}

// buildSystemPrompt assembles the system instruction: persona, tone and
// length settings, then the retrieved documentation context.
func buildSystemPrompt(matches []docbase.Match, opts docbase.AskOptions) string {
	tone, ok := toneInstructions[opts.Tone]
	if !ok {
		tone = toneInstructions["technical"]
	}
	length, ok := lengthInstructions[opts.Length]
	if !ok {
		length = lengthInstructions["detailed"]
	}

	var contextParts []string
	for _, m := range matches {
		common := m.Chunk.Meta.Common()
		title := common.Title
		if title == "" {
			title = common.SourceURL
		}
		text := m.Chunk.Text
		if len(text) > maxContextChars {
			text = text[:maxContextChars]
		}
		contextParts = append(contextParts, fmt.Sprintf("Title: %s\nContent: %s", title, text))
	}
	context := "No specific documentation found."
	if len(contextParts) > 0 {
		context = strings.Join(contextParts, "\n\n---\n\n")
	}

	return fmt.Sprintf(`You are a helpful assistant specializing in PTC product documentation.
%s
%s

Use the following documentation context to answer the user's question. If the context doesn't contain relevant information, provide a general answer based on your knowledge, but mention that specific documentation wasn't found.

Documentation Context:
%s
`, tone, length, context)
}

func buildUserPrompt(question string) string {
	return fmt.Sprintf(`Based on the documentation context provided, please answer this question:

Question: %s

Provide a helpful, accurate answer. If you reference specific information from the documentation, mention it.`, question)
}
