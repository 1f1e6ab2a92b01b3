package exifstore

import (
	"image"
	"image/color"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/tstromberg/clipstamp/pkg/metadata"
)

func newTool(t *testing.T) *Tool {
	t.Helper()
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}
	tool, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := tool.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return tool
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		img.Set(x, x%8, color.RGBA{R: 200, A: 255})
	}
	if err := imgio.Save(path, img, imgio.JPEGEncoder(90)); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func TestTool_RoundTrip(t *testing.T) {
	tool := newTool(t)
	path := filepath.Join(t.TempDir(), "143022.jpg")
	writeJPEG(t, path)

	f, err := tool.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Contains(metadata.OrientationKey) || f.Contains(metadata.DateTimeKey) {
		t.Fatalf("fresh JPEG should carry no EXIF orientation or date")
	}

	f.Set(metadata.OrientationKey, "8")
	f.Set(metadata.DateTimeKey, "2021:03:15 08:30:22")
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	again, err := tool.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := again.Get(metadata.OrientationKey); !ok || v != "8" {
		t.Errorf("Get(%s) = %q, %v; want 8", metadata.OrientationKey, v, ok)
	}
	if v, ok := again.Get(metadata.DateTimeKey); !ok || v != "2021:03:15 08:30:22" {
		t.Errorf("Get(%s) = %q, %v", metadata.DateTimeKey, v, ok)
	}
}

func TestTool_OpenMissingFile(t *testing.T) {
	tool := newTool(t)
	if _, err := tool.Open(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		in   interface{}
		want string
	}{
		{"2021:03:15 08:30:22", "2021:03:15 08:30:22"},
		{float64(6), "6"},
		{1.5, "1.5"},
		{true, "true"},
	}
	for _, tc := range testCases {
		if got := format(tc.in); got != tc.want {
			t.Errorf("format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
