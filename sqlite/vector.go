package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/mkowalski/docbase"
)

// Compile-time interface verification.
var _ docbase.VectorIndex = (*VectorIndex)(nil)

// VectorIndex implements docbase.VectorIndex on the chunks table.
// Embeddings are stored as little-endian float32 blobs; nearest-neighbor
// queries apply the metadata filter in SQL and compute cosine distance over
// the matching rows in Go. The scan is linear; the index stays transactional
// with the page store.
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Upsert inserts or replaces chunks with their embedding vectors.
func (v *VectorIndex) Upsert(ctx context.Context, chunks []*docbase.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return docbase.Errorf(docbase.EINVALID, "got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, chunk := range chunks {
		if chunk.Meta == nil {
			return docbase.Errorf(docbase.EINVALID, "chunk %q has no metadata", chunk.ID)
		}

		common := chunk.Meta.Common()
		var chunkIndex, totalChunks int
		var imageURL, imageAlt, imageCaption string
		switch meta := chunk.Meta.(type) {
		case docbase.TextChunkMeta:
			chunkIndex, totalChunks = meta.Index, meta.Total
		case docbase.ImageChunkMeta:
			imageURL, imageAlt, imageCaption = meta.ImageURL, meta.ImageAlt, meta.ImageCaption
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO chunks
				(id, text, type, source_url, title, section, topic, category,
				 chunk_index, total_chunks, image_url, image_alt, image_caption, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, chunk.ID, chunk.Text, string(chunk.Meta.Type()), common.SourceURL, common.Title,
			common.Section, common.Topic, common.Category,
			chunkIndex, totalChunks, imageURL, imageAlt, imageCaption,
			encodeVector(vectors[i])); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Query returns up to n chunks nearest to the vector, ascending by cosine
// distance, restricted to chunks matching the filter. Ties keep insertion
// order.
func (v *VectorIndex) Query(ctx context.Context, vector []float32, n int, filter docbase.ChunkFilter) ([]docbase.Match, error) {
	if n <= 0 {
		return nil, nil
	}

	where, args := filterClause(filter)
	rows, err := v.db.QueryContext(ctx, `
		SELECT id, text, type, source_url, title, section, topic, category,
			chunk_index, total_chunks, image_url, image_alt, image_caption, embedding
		FROM chunks`+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []docbase.Match
	for rows.Next() {
		var (
			chunk                        docbase.Chunk
			chunkType                    string
			fields                       docbase.ChunkFields
			chunkIndex, totalChunks      int
			imageURL, imageAlt, imageCap string
			blob                         []byte
		)
		if err := rows.Scan(&chunk.ID, &chunk.Text, &chunkType, &fields.SourceURL, &fields.Title,
			&fields.Section, &fields.Topic, &fields.Category,
			&chunkIndex, &totalChunks, &imageURL, &imageAlt, &imageCap, &blob); err != nil {
			return nil, err
		}

		switch docbase.ChunkType(chunkType) {
		case docbase.ChunkImage:
			chunk.Meta = docbase.ImageChunkMeta{
				ChunkFields:  fields,
				ImageURL:     imageURL,
				ImageAlt:     imageAlt,
				ImageCaption: imageCap,
			}
		default:
			chunk.Meta = docbase.TextChunkMeta{
				ChunkFields: fields,
				Index:       chunkIndex,
				Total:       totalChunks,
			}
		}

		matches = append(matches, docbase.Match{
			Chunk:    &chunk,
			Distance: cosineDistance(vector, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// Delete removes chunks by id. Unknown ids are ignored.
func (v *VectorIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := v.db.ExecContext(ctx, "DELETE FROM chunks WHERE id IN ("+placeholders+")", args...)
	return err
}

// IDs returns the ids of all chunks matching the filter.
func (v *VectorIndex) IDs(ctx context.Context, filter docbase.ChunkFilter) ([]string, error) {
	where, args := filterClause(filter)
	rows, err := v.db.QueryContext(ctx, "SELECT id FROM chunks"+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of chunks matching the filter.
func (v *VectorIndex) Count(ctx context.Context, filter docbase.ChunkFilter) (int, error) {
	where, args := filterClause(filter)
	var count int
	err := v.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks"+where, args...).Scan(&count)
	return count, err
}

func filterClause(filter docbase.ChunkFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Topic != nil {
		conds = append(conds, "topic = ?")
		args = append(args, *filter.Topic)
	}
	if filter.Type != nil {
		conds = append(conds, "type = ?")
		args = append(args, string(*filter.Type))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// encodeVector serializes a vector as little-endian float32s.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v
}

// cosineDistance returns 1 - cosine similarity. Mismatched lengths and zero
// vectors rank last with the maximum distance.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
