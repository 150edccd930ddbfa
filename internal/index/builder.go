package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ErrEmptyText indicates there is nothing to index. Empty extracted text is a
// failure the caller must surface, never a silent success.
var ErrEmptyText = errors.New("empty text")

const defaultChunkSize = 1000

// Builder chunks extracted text, embeds the chunks, and persists the
// resulting vector index under <Dir>/<key>/. Same key, same location: a
// rebuild overwrites the prior index.
type Builder struct {
	Dir       string
	Embedder  Embedder
	ChunkSize int
}

type indexedChunk struct {
	Ordinal int       `json:"ordinal"`
	Text    string    `json:"text"`
	Vector  []float32 `json:"vector"`
}

type persistedIndex struct {
	Key       string         `json:"key"`
	Model     string         `json:"model"`
	CreatedAt time.Time      `json:"createdAt"`
	Chunks    []indexedChunk `json:"chunks"`
}

// BuildAndPersist builds the vector index for the given key.
func (b *Builder) BuildAndPersist(ctx context.Context, text, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("index key is required")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("index key=%s: %w", key, ErrEmptyText)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	chunkSize := b.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	chunks := chunkText(text, chunkSize)

	vectors, err := b.Embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("index key=%s: embed %d chunks: %w", key, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("index key=%s: embedder returned %d vectors for %d chunks", key, len(vectors), len(chunks))
	}

	persisted := persistedIndex{
		Key:       key,
		Model:     b.Embedder.Model(),
		CreatedAt: time.Now().UTC(),
		Chunks:    make([]indexedChunk, len(chunks)),
	}
	for i, chunk := range chunks {
		persisted.Chunks[i] = indexedChunk{Ordinal: i, Text: chunk, Vector: vectors[i]}
	}

	dir := filepath.Join(b.Dir, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("index key=%s: mkdir: %w", key, err)
	}

	data, err := json.Marshal(persisted)
	if err != nil {
		return fmt.Errorf("index key=%s: marshal: %w", key, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vector_store.json"), data, 0o644); err != nil {
		return fmt.Errorf("index key=%s: write: %w", key, err)
	}
	return nil
}

// chunkText splits text into pieces of at most size runes, preferring to
// break on whitespace so chunks stay readable.
func chunkText(text string, size int) []string {
	runes := []rune(strings.TrimSpace(text))
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		cut := size
		for i := size; i > size/2; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
	}

	return chunks
}
