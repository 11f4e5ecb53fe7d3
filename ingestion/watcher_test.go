package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline(t, nil)

	_, err := NewWatcher(nil, t.TempDir())
	assert.Equal(t, ErrPipelineRequired, err)

	_, err = NewWatcher(p, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewWatcher(p, file)
	assert.Error(t, err)

	_, err = NewWatcher(p, t.TempDir(), WithDebounce(0))
	assert.Error(t, err)
}

func TestWatcher_ImportsAndRemoves(t *testing.T) {
	env := newTestEnv(t)
	idx := newFakeIndex("geo", env.repo)
	p := env.pipeline(t, []Index{idx})
	root := t.TempDir()

	w, err := NewWatcher(p, root, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give Run time to register the root directory.
	time.Sleep(100 * time.Millisecond)

	writeFiles(t, root, "a.jpg", "notes.txt", ".hidden/b.jpg")
	require.Eventually(t, func() bool {
		return count(t, env.repo) == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return idx.builds.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Mkdir(filepath.Join(root, "trip"), 0o755))
	time.Sleep(100 * time.Millisecond)
	writeFiles(t, root, "trip/c.mp4")
	require.Eventually(t, func() bool {
		return count(t, env.repo) == 2
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(root, "a.jpg")))
	require.Eventually(t, func() bool {
		return count(t, env.repo) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_FlushesOnShutdown(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline(t, nil)
	root := t.TempDir()

	flushed := make(chan int, 4)
	w, err := NewWatcher(p, root,
		WithDebounce(time.Hour),
		WithFlushHook(func(imported, _ int) { flushed <- imported }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	writeFiles(t, root, "a.jpg")
	time.Sleep(200 * time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 1, <-flushed)
	assert.Equal(t, 1, count(t, env.repo))
}
