package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	if err := SaveToken(path, "  sk-test-token\n"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("token file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %o, want 600", perm)
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if got != "sk-test-token" {
		t.Errorf("LoadToken() = %q, want %q", got, "sk-test-token")
	}
	if !HasToken(path) {
		t.Error("HasToken() should be true after save")
	}
}

func TestSaveToken_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := SaveToken(path, "   "); err == nil {
		t.Error("SaveToken() with blank token should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for a blank token")
	}
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrCredentialMissing) {
		t.Errorf("LoadToken() error = %v, want ErrCredentialMissing", err)
	}
}

func TestLoadToken_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadToken(path)
	if !errors.Is(err, ErrCredentialMissing) {
		t.Errorf("LoadToken() error = %v, want ErrCredentialMissing", err)
	}
}

func TestDeleteToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := SaveToken(path, "sk"); err != nil {
		t.Fatal(err)
	}

	if err := DeleteToken(path); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}
	if HasToken(path) {
		t.Error("HasToken() should be false after delete")
	}

	// Deleting again is not an error
	if err := DeleteToken(path); err != nil {
		t.Errorf("DeleteToken() on missing file error = %v", err)
	}
}
