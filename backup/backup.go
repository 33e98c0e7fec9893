package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MegatronPika/question-system-v3/utils"
)

const (
	filePrefix = "user_data_backup_"
	fileSuffix = ".json"
)

// Manager writes timestamped snapshots of the user-data document and keeps
// only the newest N around.
type Manager struct {
	dir  string
	keep int
}

func NewManager(dir string, keep int) *Manager {
	return &Manager{dir: dir, keep: keep}
}

// Create writes one snapshot and rotates old ones. Returns the path of the
// new file.
func (m *Manager) Create(data []byte) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := filePrefix + time.Now().Format("20060102_150405") + fileSuffix
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if err := m.rotate(); err != nil {
		utils.LogBackup("Rotation failed: %v", err)
	}
	return path, nil
}

// List returns existing snapshot paths, newest first. The timestamp in the
// name sorts the same way as creation time.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			paths = append(paths, filepath.Join(m.dir, e.Name()))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// Latest returns the newest snapshot path, or "" when none exist.
func (m *Manager) Latest() (string, error) {
	paths, err := m.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	return paths[0], nil
}

func (m *Manager) rotate() error {
	if m.keep <= 0 {
		return nil
	}
	paths, err := m.List()
	if err != nil {
		return err
	}
	for _, path := range paths[min(m.keep, len(paths)):] {
		if err := os.Remove(path); err != nil {
			return err
		}
		utils.LogBackup("Removed old backup %s", path)
	}
	return nil
}
