package docbase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 300
)

// ChunkType tags the two kinds of retrievable chunks.
type ChunkType string

// Chunk type values.
const (
	ChunkText  ChunkType = "text"
	ChunkImage ChunkType = "image"
)

// ChunkFields are the metadata fields common to both chunk kinds.
type ChunkFields struct {
	SourceURL string `json:"sourceUrl"`
	Title     string `json:"title"`
	Section   string `json:"section"`
	Topic     string `json:"topic"`
	Category  string `json:"category"`
}

// ChunkMetadata is the tagged metadata attached to a chunk. The concrete
// type is TextChunkMeta or ImageChunkMeta, so category and topic filtering
// stays exhaustively typed rather than string-keyed.
type ChunkMetadata interface {
	Type() ChunkType
	Common() ChunkFields
}

// TextChunkMeta is the metadata of a text chunk.
type TextChunkMeta struct {
	ChunkFields
	Index int `json:"chunkIndex"`
	Total int `json:"totalChunks"`
}

// Type returns ChunkText.
func (m TextChunkMeta) Type() ChunkType { return ChunkText }

// Common returns the shared metadata fields.
func (m TextChunkMeta) Common() ChunkFields { return m.ChunkFields }

// ImageChunkMeta is the metadata of an image chunk.
type ImageChunkMeta struct {
	ChunkFields
	ImageURL     string `json:"imageUrl"`
	ImageAlt     string `json:"imageAlt"`
	ImageCaption string `json:"imageCaption"`
}

// Type returns ChunkImage.
func (m ImageChunkMeta) Type() ChunkType { return ChunkImage }

// Common returns the shared metadata fields.
func (m ImageChunkMeta) Common() ChunkFields { return m.ChunkFields }

// Chunk is the atomic retrieval unit: a bounded slice of a document's text
// or a synthesized description of an image.
type Chunk struct {
	ID   string        `json:"id"`
	Text string        `json:"text"`
	Meta ChunkMetadata `json:"meta"`
}

// TextChunkID returns the deterministic id for a text chunk, so re-indexing
// the same source upserts instead of appending.
func TextChunkID(category, sourceURL string, index int) string {
	return fmt.Sprintf("%s-%x-%d", category, xxhash.Sum64String(sourceURL), index)
}

// ImageChunkID returns the deterministic id for an image chunk.
func ImageChunkID(category, imageURL string) string {
	return fmt.Sprintf("%s-img-%x", category, xxhash.Sum64String(imageURL))
}

// Fingerprint returns the SHA-256 hex digest of a page's extracted text,
// used to detect content changes cheaply.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// sentenceSearchWindow bounds how far SplitText looks backward for a
// sentence boundary.
const sentenceSearchWindow = 100

// SplitText splits text into overlapping windows of at most size
// characters, preferring to cut at a sentence-ending period followed by a
// space within the last sentenceSearchWindow characters of a window.
// Text no longer than size is returned as a single chunk equal to the
// input. Chunks are trimmed and empty chunks dropped.
//
// Size and overlap count characters, not bytes, so multibyte text is never
// cut mid-rune. Overlap must be smaller than size or the window cannot
// advance.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		panic(fmt.Sprintf("docbase: invalid chunking parameters size=%d overlap=%d", size, overlap))
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Prefer a sentence boundary near the window end.
			from := end - sentenceSearchWindow
			if from < start {
				from = start
			}
			window := string(runes[from:end])
			if cut := strings.LastIndex(window, ". "); cut != -1 {
				end = from + utf8.RuneCountInString(window[:cut]) + 1 // keep the period
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
		// A sentence cut can pull end back inside the overlap; the window
		// must still advance.
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// ImageChunkText builds human-searchable prose from the text captured
// around an image. Returns "" when no field carries any text, in which case
// the image produces no chunk.
func ImageChunkText(alt, title, caption, contextBefore, contextAfter string) string {
	var parts []string
	if alt = strings.TrimSpace(alt); alt != "" {
		parts = append(parts, "Image: "+alt)
	}
	if title = strings.TrimSpace(title); title != "" && title != alt {
		parts = append(parts, "Title: "+title)
	}
	if caption = strings.TrimSpace(caption); caption != "" {
		parts = append(parts, "Caption: "+caption)
	}
	ctx := strings.TrimSpace(strings.TrimSpace(contextBefore) + " " + strings.TrimSpace(contextAfter))
	if ctx != "" {
		parts = append(parts, "Context: "+ctx)
	}
	return strings.Join(parts, ". ")
}
