package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SaveToken writes the token to path with owner-only permissions
func SaveToken(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("refusing to store an empty token")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	return nil
}

// LoadToken reads the token stored at path. A missing or empty file is
// reported as ErrCredentialMissing.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCredentialMissing
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrCredentialMissing
	}

	return token, nil
}

// DeleteToken removes the stored token; a missing file is not an error
func DeleteToken(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// HasToken reports whether a token is stored at path
func HasToken(path string) bool {
	_, err := LoadToken(path)
	return err == nil
}
