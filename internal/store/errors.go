package store

import (
	"errors"
	"fmt"

	"github.com/rcliao/happy-days/internal/model"
)

var (
	ErrNotFound = errors.New("memory not found")
	ErrNoAudio  = errors.New("memory has no audio")
)

// StorageError reports a failed read, write or move of a memory artifact.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IndexError reports that the index rejected an update. The artifact
// write that triggered it has already succeeded.
type IndexError struct {
	ID  model.ID
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %v", e.ID, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
