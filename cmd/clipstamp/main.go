package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/tstromberg/clipstamp/pkg/clipstamp"
	"github.com/tstromberg/clipstamp/pkg/exifstore"
	"github.com/tstromberg/clipstamp/pkg/metadata"
)

var (
	dryRun       = flag.Bool("n", false, "dry run: log what would change without writing anything")
	force        = flag.Bool("force", false, "overwrite orientation and date even if already present")
	keepGoing    = flag.Bool("keep-going", false, "skip images with a bad path or sidecar instead of stopping")
	backupDir    = flag.String("backup", "", "copy each image here before its metadata is modified")
	configFile   = flag.String("config", "", "YAML config file (default ~/.clipstamprc)")
	exiftoolPath = flag.String("exiftool", "", "path to the exiftool binary")
	watchFlag    = flag.Bool("watch", false, "keep running and tag images as they arrive")
	hiddenFlag   = flag.Bool("hidden", false, "also walk files and directories whose names start with a dot")
)

const usageText = `Usage: clipstamp [flags] <narrative_directory> [<utc_offset>]

Sets the EXIF orientation and date of every YYYY/MM/DD/HHMMSS.jpg under
narrative_directory from its meta/HHMMSS.json accelerometer sidecar, and
sets the file times to the capture time. utc_offset is in whole hours
(default 0).

Flags:
`

type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

// positional holds the validated positional arguments.
type positional struct {
	dir       string
	offset    int
	hasOffset bool
}

func parseArgs(args []string) (positional, error) {
	p := positional{}
	if len(args) == 0 {
		return p, usageError{"narrative directory is required"}
	}
	if len(args) > 2 {
		return p, usageError{fmt.Sprintf("unexpected arguments: %q", args[2:])}
	}

	p.dir = args[0]
	if st, err := os.Stat(p.dir); err != nil || !st.IsDir() {
		return p, usageError{fmt.Sprintf("path supplied [%s] is not a valid directory", p.dir)}
	}

	if len(args) == 2 {
		o, err := strconv.Atoi(args[1])
		if err != nil {
			return p, usageError{fmt.Sprintf("timezone offset [%s] is not an integer", args[1])}
		}
		p.offset = o
		p.hasOffset = true
	}
	return p, nil
}

// loadConfig layers the config file, then flags and positionals, over the defaults.
func loadConfig(p positional) (*clipstamp.Config, error) {
	c := clipstamp.DefaultConfig()

	path := *configFile
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		var err error
		path, err = clipstamp.DefaultConfigFile()
		if err != nil {
			klog.Warningf("no default config: %v", err)
		}
	}
	if path != "" {
		if err := clipstamp.LoadConfigFile(c, path); err != nil {
			return nil, err
		}
	}

	c.InDir = p.dir
	if p.hasOffset {
		c.Offset = p.offset
	}
	if *dryRun {
		c.DryRun = true
	}
	if *force {
		c.Force = true
	}
	if *keepGoing {
		c.KeepGoing = true
	}
	if *hiddenFlag {
		c.IncludeHidden = true
	}
	if *backupDir != "" {
		c.BackupDir = *backupDir
	}
	if *exiftoolPath != "" {
		c.ExiftoolPath = *exiftoolPath
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// store is a metadata store that holds a resource until closed.
type store interface {
	metadata.Store
	Close() error
}

// openStore starts the store used for a run.
type openStore func(c *clipstamp.Config) (store, error)

func openExiftool(c *clipstamp.Config) (store, error) {
	return exifstore.New(exifstore.Options{BinaryPath: c.ExiftoolPath})
}

func run(ctx context.Context, args []string, open openStore, stdout io.Writer) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	c, err := loadConfig(p)
	if err != nil {
		return err
	}

	st, err := open(c)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			klog.Errorf("Failed to close metadata store: %v", err)
		}
	}()

	if _, err := clipstamp.Run(c, st); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	fmt.Fprintln(stdout, "Done!")

	if !*watchFlag {
		return nil
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return clipstamp.Watch(ctx, c, st, clipstamp.DefaultSettle)
}

// usage writes the usage text and flag defaults to w.
func usage(w io.Writer) {
	fmt.Fprint(w, usageText)
	out := flag.CommandLine.Output()
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	flag.CommandLine.SetOutput(out)
}

// exitCode runs the tool and reports errors, returning the process exit status.
func exitCode(ctx context.Context, args []string, open openStore, stdout io.Writer, stderr io.Writer) int {
	err := run(ctx, args, open, stdout)
	if err == nil {
		return 0
	}

	var ue usageError
	if errors.As(err, &ue) {
		usage(stderr)
		fmt.Fprintf(stderr, "\n%s\n", ue)
	} else {
		klog.Errorf("%v", err)
	}
	return 1
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()

	code := exitCode(context.Background(), flag.Args(), openExiftool, os.Stdout, os.Stderr)
	klog.Flush()
	os.Exit(code)
}
