package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArtifact(t *testing.T, root, key, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLocalStorage_ListDirectories(t *testing.T) {
	root := t.TempDir()
	writeTestArtifact(t, root, "updates/1.0.0/update.zip", "bundle-1")
	writeTestArtifact(t, root, "updates/2.0.0/update.zip", "bundle-2")

	l := NewLocal(root)
	dirs, err := l.ListDirectories(context.Background(), "updates")
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}

	if len(dirs) != 2 {
		t.Fatalf("dirs = %v, want 2 entries", dirs)
	}
}

func TestLocalStorage_ListDirectories_MissingPrefix_ReturnsEmpty(t *testing.T) {
	l := NewLocal(t.TempDir())
	dirs, err := l.ListDirectories(context.Background(), "updates")
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 0 {
		t.Errorf("dirs = %v, want empty", dirs)
	}
}

func TestLocalStorage_ListFiles(t *testing.T) {
	root := t.TempDir()
	writeTestArtifact(t, root, "updates/1.0.0/update.zip", "bundle-content")

	l := NewLocal(root)
	files, err := l.ListFiles(context.Background(), "updates/1.0.0")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("files = %v, want exactly 1 entry", files)
	}
	if files[0].Name != "update.zip" {
		t.Errorf("Name = %q, want %q", files[0].Name, "update.zip")
	}
	if files[0].Size != int64(len("bundle-content")) {
		t.Errorf("Size = %d, want %d", files[0].Size, len("bundle-content"))
	}
	if files[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
}

func TestLocalStorage_CopyFile(t *testing.T) {
	root := t.TempDir()
	writeTestArtifact(t, root, "updates/1.0.0/old.zip", "old-bundle")

	l := NewLocal(root)
	if err := l.CopyFile(context.Background(), "updates/1.0.0/old.zip", "updates/1.0.0/123_old.zip"); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "updates", "1.0.0", "123_old.zip"))
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(data) != "old-bundle" {
		t.Errorf("copied content = %q, want %q", data, "old-bundle")
	}

	// コピー元は残っていること
	if _, err := os.Stat(filepath.Join(root, "updates", "1.0.0", "old.zip")); err != nil {
		t.Errorf("source file should remain: %v", err)
	}
}

func TestLocalStorage_CopyFile_MissingSource_ReturnsError(t *testing.T) {
	l := NewLocal(t.TempDir())
	if err := l.CopyFile(context.Background(), "updates/1.0.0/nope.zip", "updates/1.0.0/copy.zip"); err == nil {
		t.Error("expected error for missing source, got nil")
	}
}

func TestNew_UnknownDriver_ReturnsError(t *testing.T) {
	if _, err := New(context.Background(), Config{Driver: "ftp"}); err == nil {
		t.Error("expected error for unknown driver, got nil")
	}
}
