// Package sidecar reads the sensor JSON written next to each captured image.
package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tstromberg/clipstamp/pkg/capture"
)

// DefaultDir is the subdirectory of an image's directory that holds its sidecar.
const DefaultDir = "meta"

var (
	// ErrMissing is returned when an image has no sidecar file.
	ErrMissing = errors.New("sidecar missing")
	// ErrFormat is returned when a sidecar lacks a usable accelerometer sample.
	ErrFormat = errors.New("sidecar malformed")
)

// Document is the subset of a sidecar file this package understands.
// Samples stay raw so that only the first one has to be well formed.
type Document struct {
	AccData *struct {
		Samples []json.RawMessage `json:"samples"`
	} `json:"acc_data"`
}

// Path returns <image dir>/<dir>/<image base without extension>.json.
func Path(image string, dir string) string {
	if dir == "" {
		dir = DefaultDir
	}
	base := filepath.Base(image)
	noExt := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(image), dir, noExt+".json")
}

// Read returns the first accelerometer sample of the sidecar at path.
func Read(path string) (capture.Sample, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return capture.Sample{}, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return capture.Sample{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(bs)
}

// ReadFor reads the sidecar belonging to image.
func ReadFor(image string, dir string) (capture.Sample, error) {
	return Read(Path(image, dir))
}

// Parse extracts acc_data.samples[0] from a sidecar document.
func Parse(bs []byte) (capture.Sample, error) {
	var d Document
	if err := json.Unmarshal(bs, &d); err != nil {
		return capture.Sample{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if d.AccData == nil {
		return capture.Sample{}, fmt.Errorf("%w: no acc_data", ErrFormat)
	}
	if len(d.AccData.Samples) == 0 {
		return capture.Sample{}, fmt.Errorf("%w: no acc_data.samples", ErrFormat)
	}

	var first []json.RawMessage
	if err := json.Unmarshal(d.AccData.Samples[0], &first); err != nil {
		return capture.Sample{}, fmt.Errorf("%w: first sample: %v", ErrFormat, err)
	}
	if len(first) < 2 {
		return capture.Sample{}, fmt.Errorf("%w: first sample needs x and y, got %d values", ErrFormat, len(first))
	}

	x, okX := axis(first[0])
	y, okY := axis(first[1])
	if !okX || !okY {
		return capture.Sample{}, fmt.Errorf("%w: first sample x and y must be numbers, got %s", ErrFormat, d.AccData.Samples[0])
	}

	s := capture.Sample{X: x, Y: y}
	if len(first) > 2 {
		// Z is informational; a null or non-numeric value reads as 0.
		s.Z, _ = axis(first[2])
	}
	return s, nil
}

// axis decodes one numeric reading. It reports false for null and non-numbers.
func axis(raw json.RawMessage) (float64, bool) {
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	return *v, true
}
