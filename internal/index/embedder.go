package index

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Embedder turns text chunks into vectors. The embedding algorithm itself is
// an external capability; this package only consumes it.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	Model() string
}

const localDim = 64

// LocalEmbedder is a deterministic, offline embedder for dev mode and tests.
// Vectors are derived from a content hash and unit-normalized; equal inputs
// always produce equal vectors.
type LocalEmbedder struct{}

// Embed produces one vector per input.
func (LocalEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(inputs))
	for i, input := range inputs {
		out[i] = hashVector(input)
	}
	return out, nil
}

// Model identifies the embedder in persisted index metadata.
func (LocalEmbedder) Model() string { return "local-hash-v1" }

func hashVector(input string) []float32 {
	vec := make([]float32, localDim)
	seed := sha256.Sum256([]byte(input))

	var norm float64
	digest := seed
	for i := 0; i < localDim; i++ {
		if i%8 == 0 && i > 0 {
			digest = sha256.Sum256(digest[:])
		}
		bits := binary.BigEndian.Uint32(digest[(i%8)*4 : (i%8)*4+4])
		v := float32(bits)/float32(math.MaxUint32)*2 - 1
		vec[i] = v
		norm += float64(v) * float64(v)
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

var _ Embedder = LocalEmbedder{}
