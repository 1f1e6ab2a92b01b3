package clipstamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tstromberg/clipstamp/pkg/capture"
	"github.com/tstromberg/clipstamp/pkg/sidecar"
)

// Config holds configuration for clipstamp.
type Config struct {
	// InDir is the root of the narrative tree.
	InDir string `yaml:"-"`
	// Offset is added, in hours, to the UTC path timestamp to get the local time written into metadata.
	Offset int `yaml:"utc_offset"`

	Extension  string `yaml:"extension"`
	SidecarDir string `yaml:"sidecar_dir"`
	// IncludeHidden also walks files and directories whose names start with a dot.
	IncludeHidden bool `yaml:"include_hidden"`

	DryRun bool `yaml:"dry_run"`
	// Force overwrites orientation and date fields that are already present.
	Force bool `yaml:"force"`
	// KeepGoing skips images with an unparseable path or sidecar instead of aborting the run.
	KeepGoing bool `yaml:"keep_going"`
	// BackupDir, if set, receives a copy of each image before its metadata is first modified.
	BackupDir string `yaml:"backup_dir"`

	ExiftoolPath string `yaml:"exiftool_path"`
}

// DefaultConfigFile returns ~/.clipstamprc.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".clipstamprc"), nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Extension:  capture.DefaultExt,
		SidecarDir: sidecar.DefaultDir,
	}
}

// LoadConfigFile overlays the YAML file at path onto c. A missing file is not an error.
func LoadConfigFile(c *Config, path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(bs, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that c can be used for a run.
func (c *Config) Validate() error {
	if c.InDir == "" {
		return errors.New("input directory is not specified")
	}

	st, err := os.Stat(c.InDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", c.InDir)
	}

	if c.Offset < -capture.MaxOffsetHours || c.Offset > capture.MaxOffsetHours {
		return fmt.Errorf("utc offset %d is outside ±%d hours", c.Offset, capture.MaxOffsetHours)
	}

	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}

	if c.SidecarDir == "" || strings.ContainsRune(c.SidecarDir, filepath.Separator) {
		return fmt.Errorf("sidecar dir %q must be a single directory name", c.SidecarDir)
	}

	if c.BackupDir != "" {
		in, err := filepath.Abs(c.InDir)
		if err != nil {
			return err
		}
		out, err := filepath.Abs(c.BackupDir)
		if err != nil {
			return err
		}
		if out == in || strings.HasPrefix(out, in+string(filepath.Separator)) {
			return fmt.Errorf("backup dir %s must be outside %s", c.BackupDir, c.InDir)
		}
	}

	return nil
}
