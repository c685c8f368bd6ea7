package store

import (
	"context"
	"log/slog"

	"github.com/rcliao/happy-days/internal/model"
)

// Export describes every memory, transcripts included.
func (s *FileStore) Export(ctx context.Context) ([]model.Info, error) {
	memories, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]model.Info, 0, len(memories))
	for _, m := range memories {
		info, err := s.Describe(ctx, m)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ReindexResult reports what Reindex changed.
type ReindexResult struct {
	Indexed int `json:"indexed"`
	Pruned  int `json:"pruned"`
}

// Reindex rebuilds the index from the transcripts on disk and drops
// entries whose memory or transcript is gone.
func (s *FileStore) Reindex(ctx context.Context) (*ReindexResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	res := &ReindexResult{}
	live := map[model.ID]bool{}
	for _, m := range memories {
		info, err := s.Describe(ctx, m)
		if err != nil {
			return res, err
		}
		if info.State != model.StateTranscribed {
			continue
		}
		if err := s.index.Put(ctx, m.ID, info.Transcript, m.ThumbPath()); err != nil {
			return res, &IndexError{ID: m.ID, Err: err}
		}
		live[m.ID] = true
		res.Indexed++
	}

	ids, err := s.index.IDs(ctx)
	if err != nil {
		return res, &IndexError{Err: err}
	}
	for _, id := range ids {
		if live[id] {
			continue
		}
		if err := s.index.Remove(ctx, id); err != nil {
			return res, &IndexError{ID: id, Err: err}
		}
		res.Pruned++
	}

	slog.Info("reindex complete", "indexed", res.Indexed, "pruned", res.Pruned)
	return res, nil
}
