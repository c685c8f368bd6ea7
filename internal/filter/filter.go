// Package filter narrows a memory list to the memories whose transcript
// matches a free-text query.
package filter

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rcliao/happy-days/internal/model"
)

// ErrSuperseded is returned to a query whose results were discarded
// because a newer query started on the same Session.
var ErrSuperseded = errors.New("filter: superseded by a newer query")

// Searcher looks up memory IDs whose indexed text contains query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.ID, error)
}

// Filter returns the memories of all whose transcript matches query, in
// the searcher's match order. A blank query returns all as is without
// searching. ctx cancels the query; results arriving after cancellation
// are dropped.
func Filter(ctx context.Context, s Searcher, all []model.Memory, query string) ([]model.Memory, error) {
	if strings.TrimSpace(query) == "" {
		return all, nil
	}

	ids, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byID := make(map[model.ID]model.Memory, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}
	out := make([]model.Memory, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
			delete(byID, id)
		}
	}
	return out, nil
}

// Session is the filter state of one memory list view. Each Filter call
// cancels the previous one; only the latest query's results are applied.
type Session struct {
	searcher Searcher

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	visible []model.Memory
}

// NewSession creates a session that queries s.
func NewSession(s Searcher) *Session {
	return &Session{searcher: s}
}

// Filter runs query against all and, if no newer query has started in
// the meantime, applies the result as the visible set.
func (s *Session) Filter(ctx context.Context, all []model.Memory, query string) ([]model.Memory, error) {
	qctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	gen := s.supersede(cancel)
	s.mu.Unlock()

	res, err := Filter(qctx, s.searcher, all, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.visible = res
	return res, nil
}

// Reset cancels any in-flight query and shows all, e.g. after re-enumeration.
func (s *Session) Reset(all []model.Memory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede(nil)
	s.visible = all
}

// Visible returns the most recently applied result.
func (s *Session) Visible() []model.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// supersede cancels the in-flight query and starts a new generation.
// Callers hold s.mu.
func (s *Session) supersede(cancel context.CancelFunc) uint64 {
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	return s.gen
}
