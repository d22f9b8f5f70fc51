package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strings"

	"github.com/yungbote/readbridge-backend/internal/modules/analysis"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
	"github.com/yungbote/readbridge-backend/internal/platform/openai"
	"github.com/yungbote/readbridge-backend/internal/utils"
)

type EmbedderProvider string

const (
	EmbedderProviderOpenAI EmbedderProvider = "openai"
	EmbedderProviderLocal  EmbedderProvider = "local"
)

// wireEmbedder selects the embedding backend. EMBEDDER_PROVIDER forces
// a choice; otherwise OpenAI is used when OPENAI_API_KEY is present and
// the local hash embedder when it is not.
func wireEmbedder(log *logger.Logger) (analysis.Embedder, error) {
	mode := EmbedderProvider(strings.ToLower(strings.TrimSpace(os.Getenv("EMBEDDER_PROVIDER"))))
	if mode == "" {
		if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
			mode = EmbedderProviderOpenAI
		} else {
			mode = EmbedderProviderLocal
		}
	}

	switch mode {
	case EmbedderProviderOpenAI:
		client, err := openai.NewClient(log)
		if err != nil {
			return nil, fmt.Errorf("init openai embedder: %w", err)
		}
		log.Info("Embedder provider selected", "provider", string(mode))
		return client, nil
	case EmbedderProviderLocal:
		dim := utils.GetEnvAsInt("LOCAL_EMBED_DIMENSIONS", 256, log)
		log.Info("Embedder provider selected", "provider", string(mode), "dimensions", dim)
		return &localEmbedder{dim: dim}, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", mode)
	}
}

// localEmbedder hashes tokens into a fixed-dimension bag-of-words
// vector. Deterministic and dependency-free; meant for development and
// tests, not semantic quality.
type localEmbedder struct {
	dim int
}

func (l *localEmbedder) Dimension() int { return l.dim }

func (l *localEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, input := range inputs {
		vec := make([]float32, l.dim)
		for _, tok := range strings.Fields(strings.ToLower(input)) {
			h := fnv.New32a()
			h.Write([]byte(tok))
			vec[int(h.Sum32())%l.dim]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm > 0 {
			inv := float32(1 / math.Sqrt(norm))
			for j := range vec {
				vec[j] *= inv
			}
		}
		out[i] = vec
	}
	return out, nil
}
