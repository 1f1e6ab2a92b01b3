// Package exifstore implements metadata.Store on top of a long-running exiftool process.
package exifstore

import (
	"fmt"
	"strconv"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"github.com/tstromberg/clipstamp/pkg/metadata"
)

// Options configures the exiftool process.
type Options struct {
	// BinaryPath overrides the exiftool found on PATH.
	BinaryPath string
}

var _ metadata.Store = (*Tool)(nil)

// Tool is a metadata.Store backed by exiftool. It is not safe for concurrent use.
type Tool struct {
	et *exiftool.Exiftool
}

// New starts exiftool.
func New(o Options) (*Tool, error) {
	opts := []func(*exiftool.Exiftool) error{
		exiftool.NoPrintConversion(),
		exiftool.PrintGroupNames("1"),
	}
	if o.BinaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(o.BinaryPath))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Tool{et: et}, nil
}

// Close stops exiftool.
func (t *Tool) Close() error {
	return t.et.Close()
}

// Open reads the current metadata of path.
func (t *Tool) Open(path string) (metadata.Fields, error) {
	fms := t.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return nil, fmt.Errorf("extract %s: no metadata returned", path)
	}
	fm := fms[0]
	if fm.Err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, fm.Err)
	}

	for k, v := range fm.Fields {
		klog.V(3).Infof("%s: %q=%v", path, k, v)
	}

	return &File{
		t:       t,
		path:    path,
		current: fm,
		staged:  map[string]string{},
	}, nil
}

// File is the metadata of one image as read by exiftool.
type File struct {
	t       *Tool
	path    string
	current exiftool.FileMetadata
	staged  map[string]string
}

// Get returns the raw value of key.
func (f *File) Get(key string) (string, bool) {
	if v, ok := f.staged[key]; ok {
		return v, true
	}
	v, ok := f.current.Fields[key]
	if !ok {
		return "", false
	}
	return format(v), true
}

// Contains reports whether key is present.
func (f *File) Contains(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Set stages a raw value for key.
func (f *File) Set(key string, value string) {
	f.staged[key] = value
}

// Flush writes staged values to the image, bypassing print conversion.
func (f *File) Flush() error {
	if len(f.staged) == 0 {
		return nil
	}

	w := exiftool.EmptyFileMetadata()
	w.File = f.path
	for k, v := range f.staged {
		// A trailing '#' tells exiftool the value is raw, e.g. Orientation=6 rather than "Rotate 90 CW".
		w.SetString(k+"#", v)
	}

	fms := []exiftool.FileMetadata{w}
	f.t.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write %s: %w", f.path, fms[0].Err)
	}

	if f.current.Fields == nil {
		f.current.Fields = map[string]interface{}{}
	}
	for k, v := range f.staged {
		f.current.Fields[k] = v
	}
	f.staged = map[string]string{}
	return nil
}

func format(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
