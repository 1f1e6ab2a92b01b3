package clipstamp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tstromberg/clipstamp/pkg/metadata"
)

func TestWatch(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "2021", "03", "15", "meta"), 0o755); err != nil {
		t.Fatal(err)
	}

	st := metadata.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, testConfig(root, -6), st, 50*time.Millisecond)
	}()

	// Give the watcher time to register the existing directories.
	time.Sleep(200 * time.Millisecond)

	path := writeImage(t, root, "2021/03/15/143022.jpg", facingDown)

	deadline := time.Now().Add(5 * time.Second)
	for st.Writes(path) == 0 && time.Now().Before(deadline) {
		time.Sleep(25 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch: %v", err)
	}

	if st.Writes(path) != 1 {
		t.Fatalf("Writes = %d, want 1", st.Writes(path))
	}
	if got := st.Fields(path)[metadata.DateTimeKey]; got != "2021:03:15 08:30:22" {
		t.Errorf("date = %q", got)
	}
}

func TestWatch_NewDirectories(t *testing.T) {
	root := t.TempDir()
	st := metadata.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, testConfig(root, 0), st, 50*time.Millisecond)
	}()
	time.Sleep(200 * time.Millisecond)

	// Each directory gets watched from its create event, so build the tree one level at a time.
	dir := root
	for _, d := range []string{"2021", "03", "15", "meta"} {
		dir = filepath.Join(dir, d)
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	path := writeImage(t, root, "2021/03/15/143022.jpg", upright)

	deadline := time.Now().Add(5 * time.Second)
	for st.Writes(path) == 0 && time.Now().Before(deadline) {
		time.Sleep(25 * time.Millisecond)
	}
	cancel()
	<-done

	if st.Writes(path) != 1 {
		t.Errorf("image in a new directory was not tagged: Writes = %d", st.Writes(path))
	}
}

func TestWatch_MissingRoot(t *testing.T) {
	err := Watch(context.Background(), testConfig(filepath.Join(t.TempDir(), "nope"), 0), metadata.NewMemory(), time.Millisecond)
	if err == nil {
		t.Errorf("Watch on a missing root succeeded")
	}
}
