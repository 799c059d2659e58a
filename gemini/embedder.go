// Package gemini implements embedding and text generation using the Google
// Gemini API.
package gemini

import (
	"context"

	"github.com/mkowalski/docbase"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// Ensure Embedder implements docbase.Embedder at compile time.
var _ docbase.Embedder = (*Embedder)(nil)

// Embedder converts text into embedding vectors via the Gemini API.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input text, in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, nil)
	if err != nil {
		return nil, docbase.Errorf(docbase.EUNAVAILABLE, "embedding request failed: %v", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, docbase.Errorf(docbase.EINTERNAL, "embedding response size mismatch")
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, docbase.Errorf(docbase.EINTERNAL, "empty embedding for text %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
