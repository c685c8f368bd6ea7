package store

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Thumbnail scales img to the given width, keeping its aspect ratio.
func Thumbnail(img image.Image, width int) *image.NRGBA {
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg (q=%d): %w", quality, err)
	}
	return buf.Bytes(), nil
}

// DecodeImage opens a captured image (jpeg, png, gif, bmp, tiff or webp),
// applying its EXIF orientation.
func DecodeImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return img, nil
}
