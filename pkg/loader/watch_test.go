package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchFiresOnWrite(t *testing.T) {
	root := writeDataset(t, "shell", `[]`)
	file := filepath.Join(root, DatasetPath("shell"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	require.NoError(t, Watch(ctx, file, 20*time.Millisecond, func() { changed <- struct{}{} }))

	require.NoError(t, os.WriteFile(file, []byte(`[{"command":"ls"}]`), 0o600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	root := writeDataset(t, "shell", `[]`)
	file := filepath.Join(root, DatasetPath("shell"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	require.NoError(t, Watch(ctx, file, 20*time.Millisecond, func() { changed <- struct{}{} }))

	sibling := filepath.Join(filepath.Dir(file), "notes.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("x"), 0o600))

	select {
	case <-changed:
		t.Fatal("unexpected change notification for sibling file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "x.json"), 0, func() {})
	require.Error(t, err)
}
