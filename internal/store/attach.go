package store

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/rcliao/happy-days/internal/model"
)

// AttachAudio moves the recording at src into m's audio path, replacing
// any earlier recording. On failure the earlier recording is left as is.
//
// A new recording invalidates the old transcript: it is deleted and its
// index entry removed, returning the memory to the recorded state.
func (s *FileStore) AttachAudio(ctx context.Context, m model.Memory, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !exists(m.ThumbPath()) {
		return &StorageError{Op: "attach audio", Path: m.ThumbPath(), Err: ErrNotFound}
	}
	fi, err := os.Stat(src)
	if err != nil {
		return &StorageError{Op: "attach audio", Path: src, Err: err}
	}
	if fi.IsDir() {
		return &StorageError{Op: "attach audio", Path: src, Err: errors.New("source is a directory")}
	}
	if err := moveFile(src, m.AudioPath()); err != nil {
		return &StorageError{Op: "attach audio", Path: m.AudioPath(), Err: err}
	}
	slog.Info("audio attached", "id", m.ID, "bytes", fi.Size())

	err = os.Remove(m.TranscriptPath())
	switch {
	case err == nil:
		slog.Info("stale transcript cleared", "id", m.ID)
	case !errors.Is(err, os.ErrNotExist):
		return &StorageError{Op: "clear transcript", Path: m.TranscriptPath(), Err: err}
	}
	if err := s.index.Remove(ctx, m.ID); err != nil {
		return &IndexError{ID: m.ID, Err: err}
	}
	return nil
}

// AttachTranscript writes text as m's transcript and then indexes it.
// An index failure is returned as *IndexError; the transcript stays written.
func (s *FileStore) AttachTranscript(ctx context.Context, m model.Memory, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !exists(m.ThumbPath()) {
		return &StorageError{Op: "attach transcript", Path: m.ThumbPath(), Err: ErrNotFound}
	}
	if !exists(m.AudioPath()) {
		return &StorageError{Op: "attach transcript", Path: m.AudioPath(), Err: ErrNoAudio}
	}
	if err := writeFile(m.TranscriptPath(), []byte(text), 0o644); err != nil {
		return &StorageError{Op: "write transcript", Path: m.TranscriptPath(), Err: err}
	}
	slog.Info("transcript attached", "id", m.ID, "chars", len(text))

	if err := s.index.Put(ctx, m.ID, text, m.ThumbPath()); err != nil {
		slog.Warn("index transcript", "id", m.ID, "error", err)
		return &IndexError{ID: m.ID, Err: err}
	}
	return nil
}
