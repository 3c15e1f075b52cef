package offline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingKeyReturnsNil(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	data, err := store.Load("absent")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if data != nil {
		t.Errorf("Load(absent) = %q, want nil", data)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	payload := []byte(`{"version":1,"records":[]}`)
	if err := store.Save(KeyTransactions, payload); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Load(KeyTransactions)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load = %q, want %q", got, payload)
	}

	// One file per key
	if _, err := os.Stat(filepath.Join(dir, KeyTransactions+".json")); err != nil {
		t.Errorf("expected snapshot file: %v", err)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	store.Save(KeyProducts, []byte("first"))
	store.Save(KeyProducts, []byte("second"))

	got, err := store.Load(KeyProducts)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load = %q, want %q", got, "second")
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "terminal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	defer store.Close()

	data, err := store.Load("absent")
	if err != nil {
		t.Fatalf("Load(absent) returned error: %v", err)
	}
	if data != nil {
		t.Errorf("Load(absent) = %q, want nil", data)
	}

	if err := store.Save(KeyTransactions, []byte("one")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(KeyTransactions, []byte("two")); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	got, err := store.Load(KeyTransactions)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Load = %q, want %q", got, "two")
	}
}
