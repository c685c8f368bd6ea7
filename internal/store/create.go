package store

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/rcliao/happy-days/internal/model"
)

var errEmptyImage = errors.New("image has no pixels")

// Create stores img as a new memory named after the current time.
// The full image is written before the thumbnail; if the thumbnail
// cannot be written the image is removed again, so a failed Create
// leaves nothing behind and can simply be retried.
func (s *FileStore) Create(ctx context.Context, img image.Image) (model.Memory, error) {
	if err := ctx.Err(); err != nil {
		return model.Memory{}, err
	}
	if img == nil || img.Bounds().Empty() {
		return model.Memory{}, &StorageError{Op: "create", Path: s.dir, Err: errEmptyImage}
	}

	full, err := encodeJPEG(img, s.quality)
	if err != nil {
		return model.Memory{}, &StorageError{Op: "create", Path: s.dir, Err: err}
	}
	thumb, err := encodeJPEG(Thumbnail(img, s.thumbWidth), s.quality)
	if err != nil {
		return model.Memory{}, &StorageError{Op: "create", Path: s.dir, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.Memory(s.nextID())
	if err := writeFile(m.ImagePath(), full, 0o644); err != nil {
		return model.Memory{}, &StorageError{Op: "write image", Path: m.ImagePath(), Err: err}
	}
	if err := writeFile(m.ThumbPath(), thumb, 0o644); err != nil {
		if rmErr := os.Remove(m.ImagePath()); rmErr != nil {
			slog.Warn("remove orphaned image", "path", m.ImagePath(), "error", rmErr)
		}
		return model.Memory{}, &StorageError{Op: "write thumbnail", Path: m.ThumbPath(), Err: err}
	}

	b := img.Bounds()
	slog.Info("memory created", "id", m.ID, "width", b.Dx(), "height", b.Dy())
	return m, nil
}

// CreateFromFile decodes the image at path and stores it as a new memory.
func (s *FileStore) CreateFromFile(ctx context.Context, path string) (model.Memory, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return model.Memory{}, &StorageError{Op: "read image", Path: path, Err: err}
	}
	return s.Create(ctx, img)
}

// nextID derives a base name from the clock. When another memory already
// uses that second, a numeric suffix keeps the name unique.
func (s *FileStore) nextID() model.ID {
	base := model.NewID(s.now())
	id := base
	for n := 1; s.taken(id); n++ {
		id = model.ID(fmt.Sprintf("%s-%d", base, n))
	}
	return id
}

func (s *FileStore) taken(id model.ID) bool {
	for _, a := range model.Artifacts {
		if exists(id.Path(s.dir, a)) {
			return true
		}
	}
	return false
}
