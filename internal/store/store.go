// Package store provides the file-backed memory store.
//
// A memory is up to four flat files in one directory sharing a base name:
// the image (.jpg), the thumbnail (.thumb), the audio (.m4a) and the
// transcript (.txt). The thumbnail marks existence.
package store

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/rcliao/happy-days/internal/model"
)

const (
	DefaultThumbWidth  = 200
	DefaultJPEGQuality = 80
)

// Store defines the memory store interface.
type Store interface {
	// Enumerate lists every memory in the directory. An unreadable
	// directory yields an empty result.
	Enumerate(ctx context.Context) []model.Memory

	// Create persists a new memory for the captured image.
	Create(ctx context.Context, img image.Image) (model.Memory, error)

	// AttachAudio moves a finished recording into the memory's audio slot.
	AttachAudio(ctx context.Context, m model.Memory, src string) error

	// AttachTranscript writes the transcript and indexes it.
	AttachTranscript(ctx context.Context, m model.Memory, text string) error
}

// Indexer receives the searchable projection of transcribed memories.
type Indexer interface {
	Put(ctx context.Context, id model.ID, body, thumb string) error
	Remove(ctx context.Context, id model.ID) error
	IDs(ctx context.Context) ([]model.ID, error)
}

// Options configures a FileStore.
type Options struct {
	Dir         string
	Index       Indexer
	ThumbWidth  int
	JPEGQuality int
	Now         func() time.Time
}

// FileStore implements Store on a flat directory.
type FileStore struct {
	dir        string
	index      Indexer
	thumbWidth int
	quality    int
	now        func() time.Time

	// mu serialises mutations of the artifact set.
	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at opts.Dir, creating the directory if needed.
func NewFileStore(opts Options) (*FileStore, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("store: directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Path: opts.Dir, Err: err}
	}

	s := &FileStore{
		dir:        opts.Dir,
		index:      opts.Index,
		thumbWidth: opts.ThumbWidth,
		quality:    opts.JPEGQuality,
		now:        opts.Now,
	}
	if s.index == nil {
		s.index = nopIndexer{}
	}
	if s.thumbWidth <= 0 {
		s.thumbWidth = DefaultThumbWidth
	}
	if s.quality <= 0 || s.quality > 100 {
		s.quality = DefaultJPEGQuality
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Dir returns the directory holding the artifacts.
func (s *FileStore) Dir() string { return s.dir }

// Memory returns the projection of id onto this store's directory
// without checking that it exists.
func (s *FileStore) Memory(id model.ID) model.Memory {
	return model.Memory{ID: id, Dir: s.dir}
}

// Enumerate scans for thumbnails and returns one memory per base name,
// in directory order. Read errors are logged and yield an empty result.
func (s *FileStore) Enumerate(ctx context.Context) []model.Memory {
	memories, err := s.Scan(ctx)
	if err != nil {
		slog.Warn("enumerate memories", "dir", s.dir, "error", err)
		return []model.Memory{}
	}
	return memories
}

// Scan is Enumerate with read errors reported instead of swallowed.
func (s *FileStore) Scan(ctx context.Context) ([]model.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "enumerate", Path: s.dir, Err: err}
	}

	memories := []model.Memory{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := model.IDFromFilename(e.Name(), model.Thumbnail)
		if !ok {
			continue
		}
		memories = append(memories, s.Memory(id))
	}
	return memories, nil
}

// Get resolves id to an existing memory.
func (s *FileStore) Get(_ context.Context, raw string) (model.Memory, error) {
	id, err := model.ParseID(raw)
	if err != nil {
		return model.Memory{}, err
	}
	m := s.Memory(id)
	if !exists(m.ThumbPath()) {
		return model.Memory{}, &StorageError{Op: "get", Path: m.ThumbPath(), Err: ErrNotFound}
	}
	return m, nil
}

// Describe reports the artifacts present for m.
func (s *FileStore) Describe(_ context.Context, m model.Memory) (model.Info, error) {
	info := model.Info{
		ID:        m.ID,
		Path:      m.Base(),
		CreatedAt: m.ID.CreatedAt(),
		Sizes:     map[string]int64{},
	}
	for _, a := range model.Artifacts {
		fi, err := os.Stat(m.ID.Path(m.Dir, a))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return info, &StorageError{Op: "describe", Path: m.ID.Path(m.Dir, a), Err: err}
		}
		info.Sizes[a.String()] = fi.Size()
	}
	if _, ok := info.Sizes[model.Thumbnail.String()]; !ok {
		return info, &StorageError{Op: "describe", Path: m.ThumbPath(), Err: ErrNotFound}
	}

	info.State = stateOf(info.Sizes)
	if info.State == model.StateTranscribed {
		b, err := os.ReadFile(m.TranscriptPath())
		if err != nil {
			return info, &StorageError{Op: "describe", Path: m.TranscriptPath(), Err: err}
		}
		info.Transcript = string(b)
	}
	return info, nil
}

func stateOf(sizes map[string]int64) model.State {
	if _, ok := sizes[model.Transcript.String()]; ok {
		return model.StateTranscribed
	}
	if _, ok := sizes[model.Audio.String()]; ok {
		return model.StateRecorded
	}
	return model.StateCreated
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type nopIndexer struct{}

func (nopIndexer) Put(context.Context, model.ID, string, string) error { return nil }
func (nopIndexer) Remove(context.Context, model.ID) error              { return nil }
func (nopIndexer) IDs(context.Context) ([]model.ID, error)             { return nil, nil }
