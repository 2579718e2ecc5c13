package scoring

import (
	"context"

	"github.com/okian/jelajah/pkg/logger"
)

// Load selects a provider at startup: the model at path guarded by a breaker
// with the heuristic behind it, or the heuristic alone when path is empty or
// the model cannot be loaded.
func Load(ctx context.Context, path string, opts ...Option) Provider {
	s := newSettings(opts)
	heuristic := NewHeuristicProvider()
	if path == "" {
		s.log.Info(ctx, "no model configured, using heuristic scoring")
		return heuristic
	}
	m, err := LoadModel(path)
	if err != nil {
		s.log.Warn(ctx, "model unavailable, using heuristic scoring",
			logger.String("path", path), logger.Error(err))
		return heuristic
	}
	s.log.Info(ctx, "scoring model loaded", logger.String("path", path), logger.Int("layers", len(m.layers)))
	return NewFallbackProvider(m, heuristic, opts...)
}
