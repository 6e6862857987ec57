package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLoadAbsent(t *testing.T) {
	backend := NewFile(filepath.Join(t.TempDir(), "tasks.json"))

	blob, found, err := backend.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found || blob != nil {
		t.Fatalf("expected absent blob, got found=%v blob=%q", found, blob)
	}
}

func TestFileSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	backend := NewFile(path)
	ctx := context.Background()
	payload := []byte(`[{"id":1,"title":"Buy milk"}]`)

	if err := backend.Save(ctx, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	blob, found, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || string(blob) != string(payload) {
		t.Fatalf("unexpected blob: found=%v %s", found, blob)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be renamed away")
	}
}

func TestFileSaveOverwrites(t *testing.T) {
	backend := NewFile(filepath.Join(t.TempDir(), "tasks.json"))
	ctx := context.Background()

	if err := backend.Save(ctx, []byte("[1]")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := backend.Save(ctx, []byte("[1,2]")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	blob, _, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(blob) != "[1,2]" {
		t.Fatalf("unexpected blob: %s", blob)
	}
}
