package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesContent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	path, size, err := store.Save(strings.NewReader("data_test\n_cell_length_a 10.0\n"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if size != 30 {
		t.Errorf("Expected size 30, got %d", size)
	}
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("Expected file in %s, got %s", store.Dir(), path)
	}
	if !strings.HasSuffix(path, ".cif") {
		t.Errorf("Expected .cif suffix, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "data_test\n_cell_length_a 10.0\n" {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		path, _, err := store.Save(strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if seen[path] {
			t.Fatalf("Duplicate path: %s", path)
		}
		seen[path] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSaveReturnsPathOnCopyFailure(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	path, _, err := store.Save(failingReader{})
	if err == nil {
		t.Fatal("Expected error from failing reader")
	}
	if path == "" {
		t.Fatal("Expected path to be returned for cleanup")
	}
	if err := store.Remove(path); err != nil {
		t.Errorf("Remove failed: %v", err)
	}
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	path, _, err := store.Save(strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed")
	}

	// Second removal is a no-op
	if err := store.Remove(path); err != nil {
		t.Errorf("Expected no error removing missing file, got %v", err)
	}
}

func TestNewStoreDefaultDir(t *testing.T) {
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Dir() != os.TempDir() {
		t.Errorf("Expected %s, got %s", os.TempDir(), store.Dir())
	}
}

func TestNewStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected directory to exist: %v", err)
	}
}
