package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestStorageRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "dream-audio-1.webm", strings.NewReader("audio")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(ctx, "dream-audio-1.webm")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "audio" {
		t.Fatalf("content = %q", data)
	}
}

func TestStorageSaveBytesAndGlob(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	n, err := store.SaveBytes(ctx, "dream_d1_scene_1.png", []byte("png1"))
	if err != nil || n != 4 {
		t.Fatalf("SaveBytes() = %d, %v", n, err)
	}
	if _, err := store.SaveBytes(ctx, "dream_d1_scene_2.png", []byte("png2")); err != nil {
		t.Fatalf("SaveBytes() error = %v", err)
	}
	if _, err := store.SaveBytes(ctx, "dream_d2_scene_1.png", []byte("png3")); err != nil {
		t.Fatalf("SaveBytes() error = %v", err)
	}

	names, err := store.Glob("dream_d1_scene_*.png")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("matches = %v", names)
	}
}

func TestStorageRemoveAcceptsFullPath(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "a.webm", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Remove(ctx, store.Path("a.webm")); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := store.Open(ctx, "a.webm"); err == nil {
		t.Fatal("file still readable after remove")
	}
}

func TestStorageFlattensTraversalKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := store.Path("../../etc/passwd")
	if strings.Contains(got, "..") || !strings.HasPrefix(got, dir) {
		t.Fatalf("resolved path escapes base dir: %q", got)
	}
}
