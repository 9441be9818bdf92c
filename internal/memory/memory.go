// Package memory archives finished reflections and surfaces echoes,
// short traces of related past memories folded into a new ritual.
package memory

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/provider"
	"github.com/felixgeelhaar/pond/internal/store"
)

// DefaultEchoes is how many past reflections a new ritual hears.
const DefaultEchoes = 3

// Pool connects the embedder to the persistent memory store.
type Pool struct {
	provider provider.Provider
	store    store.Storage
	obs      *observe.Observer
}

func NewPool(p provider.Provider, s store.Storage, obs *observe.Observer) *Pool {
	return &Pool{provider: p, store: s, obs: obs}
}

// Remember archives a finished reflection. The artifact is embedded so
// later rituals can recall it; if the provider cannot embed, the memory
// is stored without a vector and simply never echoes.
func (p *Pool) Remember(ctx context.Context, mem *store.Memory) (int64, error) {
	var vector []float32
	if text := embedText(mem); text != "" {
		v, err := p.provider.Embed(ctx, text)
		if err != nil {
			p.obs.Log().Warn().Err(err).Str("title", mem.Title).Msg("embedding failed, archiving without vector")
		} else {
			vector = v
		}
	}
	return p.store.AddMemory(mem, vector)
}

// Recall returns up to limit echoes related to the given text. Recall
// never fails a ritual: any error degrades to no echoes.
func (p *Pool) Recall(ctx context.Context, text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultEchoes
	}

	vector, err := p.provider.Embed(ctx, text)
	if err != nil {
		p.obs.Log().Warn().Err(err).Msg("echo recall skipped, embedding failed")
		return nil
	}

	items, err := p.store.SearchMemory(vector, limit)
	if err != nil {
		p.obs.Log().Warn().Err(err).Msg("echo recall skipped, search failed")
		return nil
	}

	var echoes []string
	for _, item := range items {
		if item.Memory.Artifact == "" {
			continue
		}
		echoes = append(echoes, item.Memory.Title+": "+item.Memory.Artifact)
	}
	return echoes
}

// embedText is the searchable face of a memory: title, offering, artifact.
func embedText(mem *store.Memory) string {
	parts := []string{mem.Title, mem.Offering, mem.Artifact}
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "\n")
}
