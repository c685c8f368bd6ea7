// Package transcribe turns a memory's audio into its transcript using an
// external speech recognizer.
package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/rcliao/happy-days/internal/model"
)

// AudioPlaceholder is replaced by the audio path in a recognizer command.
const AudioPlaceholder = "{audio}"

var (
	ErrUnavailable = errors.New("speech recognizer not configured")
	ErrNoResult    = errors.New("recognizer produced no final result")
)

// TranscriptionError reports that a memory's audio could not be transcribed.
type TranscriptionError struct {
	ID  model.ID
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.ID, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Recognizer converts an audio file to text. partial, if non-nil, receives
// the text recognised so far; the return value is the single final result.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string, partial func(string)) (string, error)
}

// CommandRecognizer runs an external speech-to-text program. Every
// non-blank line it prints is a partial result; its whole output on a
// clean exit is the final one.
type CommandRecognizer struct {
	args    []string
	timeout time.Duration
}

// NewCommandRecognizer parses command with shell quoting rules. If command
// has no {audio} placeholder the audio path is appended as the last argument.
func NewCommandRecognizer(command string, timeout time.Duration) (*CommandRecognizer, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrUnavailable
	}
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse recognizer command: %w", err)
	}
	if len(args) == 0 {
		return nil, ErrUnavailable
	}
	return &CommandRecognizer{args: args, timeout: timeout}, nil
}

func (c *CommandRecognizer) argv(audioPath string) []string {
	out := make([]string, 0, len(c.args)+1)
	substituted := false
	for _, a := range c.args {
		if strings.Contains(a, AudioPlaceholder) {
			a = strings.ReplaceAll(a, AudioPlaceholder, audioPath)
			substituted = true
		}
		out = append(out, a)
	}
	if !substituted {
		out = append(out, audioPath)
	}
	return out
}

func (c *CommandRecognizer) Recognize(ctx context.Context, audioPath string, partial func(string)) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := c.argv(audioPath)
	out := &lineWriter{partial: partial}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = &stderr
	// children that outlive a killed recognizer must not hold Wait open
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", argv[0], ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	out.flush()

	text := strings.Join(out.lines, "\n")
	if text == "" {
		return "", ErrNoResult
	}
	return text, nil
}

// lineWriter splits recognizer output into lines, reporting the
// accumulated text after each non-blank one.
type lineWriter struct {
	partial func(string)
	buf     bytes.Buffer
	lines   []string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.buf.Next(i + 1))
		w.add(line)
	}
}

func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.add(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.lines = append(w.lines, line)
	if w.partial != nil {
		w.partial(strings.Join(w.lines, "\n"))
	}
}
