package docbase

import "context"

// CrawlState is an immutable snapshot of the crawl job's progress, the only
// state shared between the crawl task and status-polling callers.
type CrawlState struct {
	InProgress         bool     `json:"inProgress"`
	Progress           float64  `json:"progress"` // percent, 0-100
	Status             string   `json:"status"`
	CurrentURL         string   `json:"currentUrl"`
	PagesScraped       int      `json:"pagesScraped"`
	TotalPagesEstimate int      `json:"totalPagesEstimate"`
	Errors             []string `json:"errors"`
	Category           string   `json:"category"`
}

// Generator produces text from a prompt. The wording of prompts and the
// quality of generated answers are outside this package's concern.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// AskOptions configures answer generation.
type AskOptions struct {
	Category string
	Topic    string
	Tone     string // formal, casual or technical
	Length   string // brief or detailed
}

// Answer is a generated answer with the sources that informed it.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
	Topics  []string `json:"topics"`
}

// Asker answers natural language questions using retrieved context.
type Asker interface {
	Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error)
}
