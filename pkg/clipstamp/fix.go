package clipstamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/tstromberg/clipstamp/pkg/capture"
	"github.com/tstromberg/clipstamp/pkg/metadata"
	"github.com/tstromberg/clipstamp/pkg/sidecar"
)

// ErrMetadata wraps failures to read or write an image's metadata or file times.
var ErrMetadata = errors.New("problem modifying EXIF data")

// Summary counts the outcome of a run.
type Summary struct {
	Images    int
	Tagged    int
	Unchanged int
	// Failed images could not have their metadata read or written.
	Failed int
	// Invalid images had an unparseable path or sidecar and were skipped (KeepGoing only).
	Invalid int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d images: %d tagged, %d unchanged, %d failed, %d invalid",
		s.Images, s.Tagged, s.Unchanged, s.Failed, s.Invalid)
}

// Run tags every image under c.InDir, one at a time.
//
// Metadata failures are logged and counted. Path and sidecar failures abort the run
// unless c.KeepGoing is set.
func Run(c *Config, st metadata.Store) (*Summary, error) {
	klog.Infof("scanning %s (utc offset %+d)", c.InDir, c.Offset)

	is, err := Find(c)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	s := &Summary{}
	for _, i := range is {
		s.Images++
		err := Fix(c, st, i)
		switch {
		case err == nil && len(i.Wrote) > 0:
			s.Tagged++
		case err == nil:
			s.Unchanged++
		case errors.Is(err, ErrMetadata):
			klog.Errorf("%v. File corrupt?", err)
			s.Failed++
		case c.KeepGoing:
			klog.Warningf("skipping %s: %v", i.InPath, err)
			s.Invalid++
		default:
			return s, fmt.Errorf("%s: %w", i.InPath, err)
		}
	}

	klog.Infof("%s: %s", c.InDir, s)
	return s, nil
}

// Fix derives the orientation and capture time of i and writes whichever of them is missing.
func Fix(c *Config, st metadata.Store, i *Image) error {
	i.Wrote = nil

	if i.SidecarPath == "" {
		i.SidecarPath = sidecar.Path(i.InPath, c.SidecarDir)
	}
	if i.RelPath == "" {
		i.RelPath = relPath(c.InDir, i.InPath)
	}
	sample, err := sidecar.Read(i.SidecarPath)
	if err != nil {
		return err
	}
	i.Sample = sample
	i.Orientation = capture.InferOrientation(sample)
	klog.V(1).Infof("%s: sample %+v -> orientation %d (rotate %d°, roll %.1f°)", i.InPath, sample, i.Orientation, i.Orientation.Degrees(), sample.Roll())

	ts, err := capture.ParsePath(i.InPath, c.Extension)
	if err != nil {
		return err
	}
	i.Taken = capture.Reconcile(ts, c.Offset)
	local := i.Taken.Local.Format(metadata.DateTimeFormat)
	klog.V(1).Infof("%s: taken %s UTC, %s local", i.InPath, i.Taken.UTC.Format(time.RFC3339), local)

	f, err := st.Open(i.InPath)
	if err != nil {
		return fmt.Errorf("%w for %s: %w", ErrMetadata, i.InPath, err)
	}

	want := []struct {
		key   string
		value string
	}{
		{metadata.OrientationKey, i.Orientation.String()},
		{metadata.DateTimeKey, local},
	}
	for _, w := range want {
		if old, ok := f.Get(w.key); ok {
			if !c.Force || old == w.value {
				klog.V(2).Infof("%s: keeping %s=%q", i.InPath, w.key, old)
				continue
			}
			klog.Infof("%s: overwriting %s=%q with %q", i.InPath, w.key, old, w.value)
		}
		f.Set(w.key, w.value)
		i.Wrote = append(i.Wrote, w.key)
	}

	if len(i.Wrote) == 0 {
		klog.V(1).Infof("%s: already tagged", i.InPath)
		return nil
	}

	if c.DryRun {
		klog.Infof("[DRY RUN] would set %v on %s and its times to %s", i.Wrote, i.InPath, i.Taken.UTC.Format(time.RFC3339))
		return nil
	}

	if c.BackupDir != "" {
		if err := backup(c, i); err != nil {
			return fmt.Errorf("%w for %s: %w", ErrMetadata, i.InPath, err)
		}
	}

	if err := f.Flush(); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrMetadata, i.InPath, err)
	}

	t := time.Unix(i.Taken.Epoch, 0)
	if !i.ModTime.IsZero() {
		klog.V(1).Infof("%s: mtime %s -> %s (%s)", i.InPath, i.ModTime.UTC().Format(time.RFC3339), t.UTC().Format(time.RFC3339), t.Sub(i.ModTime))
	}
	if err := os.Chtimes(i.InPath, t, t); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrMetadata, i.InPath, err)
	}

	klog.Infof("tagged %s: orientation=%d taken=%s", i.InPath, i.Orientation, local)
	return nil
}

// relPath returns path relative to root, or "" if path is not inside root.
func relPath(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return rel
}
