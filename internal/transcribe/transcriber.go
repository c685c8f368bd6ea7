package transcribe

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/happy-days/internal/model"
)

// Attacher commits a final transcript; *store.FileStore satisfies it.
type Attacher interface {
	AttachTranscript(ctx context.Context, m model.Memory, text string) error
}

// Transcriber runs recognition for memories and commits the final result.
type Transcriber struct {
	rec   Recognizer
	store Attacher
}

func New(rec Recognizer, store Attacher) *Transcriber {
	return &Transcriber{rec: rec, store: store}
}

// Transcribe recognises m's audio and attaches the transcript. Recognition
// failures come back as *TranscriptionError and leave m untouched. Errors
// from the store (storage or index) are returned as they are.
func (t *Transcriber) Transcribe(ctx context.Context, m model.Memory, partial func(string)) (string, error) {
	if t.rec == nil {
		return "", &TranscriptionError{ID: m.ID, Err: ErrUnavailable}
	}
	if _, err := os.Stat(m.AudioPath()); err != nil {
		return "", &TranscriptionError{ID: m.ID, Err: err}
	}

	start := time.Now()
	text, err := t.rec.Recognize(ctx, m.AudioPath(), partial)
	if err != nil {
		terr := &TranscriptionError{ID: m.ID, Err: err}
		slog.Warn("transcription failed", "id", m.ID, "error", err)
		return "", terr
	}
	slog.Info("transcription finished", "id", m.ID, "chars", len(text), "took", time.Since(start))

	if err := t.store.AttachTranscript(ctx, m, text); err != nil {
		return text, err
	}
	return text, nil
}

// Job is a transcription running in the background.
type Job struct {
	ID     ulid.ULID
	Memory model.Memory

	done chan struct{}
	text string
	err  error
}

// Done is closed once the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Result returns the outcome. Only valid after Done is closed.
func (j *Job) Result() (string, error) { return j.text, j.err }

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) (string, error) {
	select {
	case <-j.done:
		return j.text, j.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Start runs Transcribe on its own goroutine.
func (t *Transcriber) Start(ctx context.Context, m model.Memory, partial func(string)) *Job {
	j := &Job{ID: ulid.Make(), Memory: m, done: make(chan struct{})}
	slog.Debug("transcription queued", "job", j.ID, "id", m.ID)

	go func() {
		defer close(j.done)
		j.text, j.err = t.Transcribe(ctx, m, partial)
		if j.err != nil {
			slog.Debug("transcription job failed", "job", j.ID, "error", j.err)
		}
	}()
	return j
}
