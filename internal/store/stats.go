package store

import (
	"context"

	"github.com/rcliao/happy-days/internal/model"
)

// Stats holds directory statistics.
type Stats struct {
	Dir        string              `json:"dir"`
	Memories   int                 `json:"memories"`
	States     map[model.State]int `json:"states"`
	Bytes      map[string]int64    `json:"bytes"`
	TotalBytes int64               `json:"total_bytes"`
}

// Stats returns counts per state and bytes per artifact kind.
func (s *FileStore) Stats(ctx context.Context) (*Stats, error) {
	memories, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Dir:      s.dir,
		Memories: len(memories),
		States:   map[model.State]int{},
		Bytes:    map[string]int64{},
	}
	for _, m := range memories {
		info, err := s.Describe(ctx, m)
		if err != nil {
			// removed between scan and stat
			continue
		}
		st.States[info.State]++
		for kind, n := range info.Sizes {
			st.Bytes[kind] += n
			st.TotalBytes += n
		}
	}
	return st, nil
}
