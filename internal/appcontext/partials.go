package appcontext

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/wm-appcontext/internal/widgets"
)

// partialScope resolves partials referenced from one page or partial.
type partialScope struct {
	run    *run
	parent string
	depth  int
}

// ResolvePartial implements widgets.PartialResolver. The expansion is refused
// when it would exceed the depth limit or close a reference cycle. A partial
// referenced again without a cycle is fetched again.
func (s *partialScope) ResolvePartial(ctx context.Context, name string) (*widgets.PartialContext, bool) {
	name = strings.TrimSpace(name)
	logger := s.run.logger.With(slog.String("partial", name), slog.String("parent", s.parent))

	if s.depth+1 > s.run.cfg.Extraction.MaxPartialDepth {
		logger.Warn("partial expansion dropped: depth limit", slog.Int("depth", s.depth+1))
		return nil, false
	}
	if err := s.run.link(s.parent, name); err != nil {
		logger.Warn("partial expansion dropped", slog.Any("error", err))
		return nil, false
	}

	pc, _ := s.run.extract(ctx, name, s.depth+1)
	return pc, true
}

// link records that parent embeds child. It fails when the edge would make
// the reference graph cyclic, self references included.
func (r *run) link(parent, child string) error {
	for _, v := range []string{parent, child} {
		if err := r.refs.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
	}
	err := r.refs.AddEdge(parent, child)
	if err == nil || errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return nil
	}
	return err
}
