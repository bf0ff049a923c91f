package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSanitize_FitsLargeImages(t *testing.T) {
	s := NewSanitizer(Config{MaxWidth: 100, MaxHeight: 100, Quality: 80})

	res, err := s.Sanitize(encodePNG(t, 400, 200), "image/png")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", res.Width, res.Height)
	}
	if res.ContentType != "image/png" {
		t.Fatalf("unexpected content type %s", res.ContentType)
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
}

func TestSanitize_KeepsSmallImages(t *testing.T) {
	s := NewSanitizer(DefaultConfig())

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 30, 20)), nil); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sanitize(buf.Bytes(), "image/jpeg")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if res.Width != 30 || res.Height != 20 {
		t.Fatalf("expected 30x20, got %dx%d", res.Width, res.Height)
	}
}

func TestSanitize_Rejects(t *testing.T) {
	s := NewSanitizer(DefaultConfig())

	if _, err := s.Sanitize([]byte("x"), "image/webp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := s.Sanitize([]byte("not an image"), "image/png"); err == nil {
		t.Fatal("expected decode error")
	}
}
