package clipstamp

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// backup copies i into c.BackupDir, keeping its path relative to c.InDir.
// An existing backup is left alone so that the first original survives repeated runs.
func backup(c *Config, i *Image) error {
	if i.RelPath == "" {
		return fmt.Errorf("backup: %s is not inside %s", i.InPath, c.InDir)
	}
	dest := filepath.Join(c.BackupDir, i.RelPath)
	if _, err := os.Stat(dest); err == nil {
		klog.V(1).Infof("backup of %s already exists at %s", i.InPath, dest)
		return nil
	}

	klog.V(1).Infof("backing up %s to %s", i.InPath, dest)
	if err := copy.Copy(i.InPath, dest, copy.Options{PreserveTimes: true, Sync: true}); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}
