// Package clipstamp tags captured images with the orientation and time recorded by their sidecars.
package clipstamp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/clipstamp/pkg/sidecar"
)

// Find returns the images under c.InDir in lexical path order.
func Find(c *Config) ([]*Image, error) {
	found := []*Image{}
	root := filepath.Clean(c.InDir)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && hidden(c, de.Name()) {
				return godirwalk.SkipThis
			}

			if de.IsDir() || filepath.Ext(path) != c.Extension {
				return nil
			}

			i := &Image{
				InPath:      path,
				SidecarPath: sidecar.Path(path, c.SidecarDir),
			}

			var err error
			i.RelPath, err = filepath.Rel(root, path)
			if err != nil {
				return err
			}

			fi, err := os.Stat(path)
			if err != nil {
				klog.Errorf("stat failure: %v", err)
				return err
			}
			if !fi.Mode().IsRegular() {
				return nil
			}
			i.ModTime = fi.ModTime()

			klog.V(1).Infof("found %s", path)
			found = append(found, i)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", c.InDir, err)
	}

	return found, nil
}

// hidden reports whether a dot-named entry should be skipped.
func hidden(c *Config, name string) bool {
	return !c.IncludeHidden && strings.HasPrefix(name, ".")
}
