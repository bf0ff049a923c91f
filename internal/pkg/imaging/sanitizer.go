// Package imaging normalizes uploaded photos before they are stored.
//
// Every upload is decoded, rotated according to its EXIF orientation, bounded
// to a maximum size and re-encoded. Re-encoding drops embedded metadata such as
// GPS tags.
package imaging

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type Config struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // JPEG quality 1-100
}

func DefaultConfig() Config {
	return Config{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   85,
	}
}

// Result is a sanitized image ready for storage.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

type Sanitizer struct {
	config Config
}

func NewSanitizer(config Config) *Sanitizer {
	if config.MaxWidth <= 0 || config.MaxHeight <= 0 {
		d := DefaultConfig()
		config.MaxWidth, config.MaxHeight = d.MaxWidth, d.MaxHeight
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultConfig().Quality
	}
	return &Sanitizer{config: config}
}

// Sanitize re-encodes data in its original format. GIFs keep only their first frame.
func (s *Sanitizer) Sanitize(data []byte, contentType string) (*Result, error) {
	format, err := formatFor(contentType)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > s.config.MaxWidth || b.Dy() > s.config.MaxHeight {
		img = imaging.Fit(img, s.config.MaxWidth, s.config.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(s.config.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

func formatFor(contentType string) (imaging.Format, error) {
	switch contentType {
	case "image/jpeg":
		return imaging.JPEG, nil
	case "image/png":
		return imaging.PNG, nil
	case "image/gif":
		return imaging.GIF, nil
	default:
		return 0, ErrUnsupportedFormat
	}
}
