package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoRoots(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("src/com/example/Foo.java"))
	assert.True(t, relevant("src/com/example/package.html"))
	assert.True(t, relevant("src/overview.html"))
	assert.False(t, relevant("src/com/example/notes.txt"))
	assert.False(t, relevant("src/index.html"))
}

func TestWatcher_BatchesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "com", "example"), 0o755))

	w, err := New(Options{Roots: []string{root}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watches a moment to register.
	time.Sleep(200 * time.Millisecond)

	javaFile := filepath.Join(root, "com", "example", "Foo.java")
	require.NoError(t, os.WriteFile(javaFile, []byte("public class Foo {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case batch := <-w.Batches():
		assert.Equal(t, []string{javaFile}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch arrived")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := New(Options{Roots: []string{root}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(200 * time.Millisecond)

	sub := filepath.Join(root, "com")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Let the new watch land before writing into the directory.
	time.Sleep(200 * time.Millisecond)

	javaFile := filepath.Join(sub, "Bar.java")
	require.NoError(t, os.WriteFile(javaFile, []byte("public class Bar {}\n"), 0o644))

	select {
	case batch := <-w.Batches():
		assert.Contains(t, batch, javaFile)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch arrived")
	}
}
