// Package artifact manages temporary input files handed to the external tool.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Manager creates scoped temporary files under Dir (the OS temp dir when empty).
type Manager struct {
	Dir string
}

// NewManager returns a Manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{Dir: dir}
}

// WithArtifact writes content to a uniquely named file, passes its path to fn
// and removes the file once fn returns or panics.
func (m *Manager) WithArtifact(content string, fn func(path string) error) (err error) {
	dir := m.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure artifact dir: %w", err)
	}

	path := filepath.Join(dir, "hashkit-wordlist-"+uuid.NewString()+".txt")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("remove artifact: %w", rmErr)
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}

	return fn(path)
}
