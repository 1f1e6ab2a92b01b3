package clipstamp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/clipstamp/pkg/metadata"
)

// DefaultSettle is how long the tree must be quiet before a watch-triggered run starts.
const DefaultSettle = 2 * time.Second

// Watch re-runs Run whenever files under c.InDir change, until ctx is done.
// Path and sidecar failures never stop a watch: images still being copied in are retried on the next event.
func Watch(ctx context.Context, c *Config, st metadata.Store, settle time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := addDirs(w, c, c.InDir); err != nil {
		return err
	}

	rc := *c
	rc.KeepGoing = true

	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(2).Infof("event: %v", event)
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !hidden(c, fi.Name()) {
					if err := addDirs(w, c, event.Name); err != nil {
						klog.Errorf("watch %s: %v", event.Name, err)
					}
				}
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				settled = time.After(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		case <-settled:
			settled = nil
			if _, err := Run(&rc, st); err != nil {
				klog.Errorf("run failed: %v", err)
			}
		}
	}
}

// addDirs watches root and every directory beneath it that Find would walk.
func addDirs(w *fsnotify.Watcher, c *Config, root string) error {
	dirs := []string{}
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if path != filepath.Clean(root) && hidden(c, de.Name()) {
				return godirwalk.SkipThis
			}
			dirs = append(dirs, path)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	klog.Infof("watching %d dirs under %s ...", len(dirs), root)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return nil
}
