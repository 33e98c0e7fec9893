package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrReadOnly marks a destination that can only be loaded from.
var ErrReadOnly = errors.New("destination is read-only")

// Destination is one physical home of the user-data document. A store
// carries several and treats them as an ordered list: first readable one
// wins on load, every writable one is attempted on save.
type Destination interface {
	Name() string
	Load() ([]byte, error)
	Save(data []byte) error
}

// fileDestination keeps the document in a single JSON file, replaced
// atomically via a temp file and rename so a crashed save never leaves a
// half-written document observable.
type fileDestination struct {
	path string
}

func NewFileDestination(path string) Destination {
	return &fileDestination{path: path}
}

func (f *fileDestination) Name() string {
	return fmt.Sprintf("file(%s)", f.path)
}

func (f *fileDestination) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *fileDestination) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err == nil {
		if err := os.Rename(tmp, f.path); err == nil {
			return nil
		}
		os.Remove(tmp)
	}

	// Atomic replace failed (e.g. tmp and target on different mounts);
	// fall back to a plain write rather than losing the save entirely.
	return os.WriteFile(f.path, data, 0o644)
}

// envDestination reads a JSON snapshot of the document from an environment
// variable. Some deployments inject the last known state this way because
// their filesystem is wiped on redeploy. It cannot be written from inside
// the process.
type envDestination struct {
	key string
}

func NewEnvDestination(key string) Destination {
	return &envDestination{key: key}
}

func (e *envDestination) Name() string {
	return fmt.Sprintf("env(%s)", e.key)
}

func (e *envDestination) Load() ([]byte, error) {
	v := os.Getenv(e.key)
	if v == "" {
		return nil, os.ErrNotExist
	}
	return []byte(v), nil
}

func (e *envDestination) Save(data []byte) error {
	return ErrReadOnly
}
