package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"

	"github.com/MegatronPika/question-system-v3/utils"
)

// ErrAllDestinationsFailed is returned by Save when not a single
// destination accepted the write. The in-memory result is still valid for
// the current request; the mutation is simply lost on restart.
var ErrAllDestinationsFailed = errors.New("all persistence destinations failed")

// Store loads and saves the user-data document across an ordered list of
// destinations. There is no per-user locking: two concurrent
// load-mutate-save cycles race and the later save wins.
type Store struct {
	mu           sync.Mutex
	destinations []Destination
}

// New builds the destination chain: persistent volume first (when
// configured), then the env-var snapshot as a read-only fallback, then the
// local file. Load order doubles as trust order.
func New(localPath, volumePath, snapshotEnvVar string) *Store {
	var dests []Destination
	if volumePath != "" {
		dests = append(dests, NewFileDestination(filepath.Join(volumePath, filepath.Base(localPath))))
	}
	if snapshotEnvVar != "" {
		dests = append(dests, NewEnvDestination(snapshotEnvVar))
	}
	dests = append(dests, NewFileDestination(localPath))
	return &Store{destinations: dests}
}

// NewWithDestinations is the test seam.
func NewWithDestinations(dests ...Destination) *Store {
	return &Store{destinations: dests}
}

// Load returns the document from the first destination that yields valid
// JSON, or a fresh empty document when none does. It never fails: a store
// that cannot be read degrades to empty state instead of blocking login.
func (s *Store) Load() *UserData {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dest := range s.destinations {
		raw, err := dest.Load()
		if err != nil {
			continue
		}
		data := NewUserData()
		if err := json.Unmarshal(raw, data); err != nil {
			utils.LogStore("Invalid document in %s: %v", dest.Name(), err)
			continue
		}
		return data
	}
	utils.LogStore("No readable user data found, starting empty")
	return NewUserData()
}

// Save replaces the document wholesale in every writable destination.
// Partial success is reported as degraded and still counts as success;
// only a total failure is surfaced to the caller.
func (s *Store) Save(data *UserData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saved, failed int
	for _, dest := range s.destinations {
		err := dest.Save(raw)
		switch {
		case err == nil:
			saved++
		case errors.Is(err, ErrReadOnly):
			// skip, not counted either way
		default:
			failed++
			utils.LogStore("Save to %s failed: %v", dest.Name(), err)
		}
	}

	if saved == 0 {
		utils.LogError("User data save failed everywhere, mutation will not survive restart")
		return ErrAllDestinationsFailed
	}
	if failed > 0 {
		utils.LogStore("Degraded save: %d of %d destinations written", saved, saved+failed)
	}
	return nil
}

// Snapshot returns the serialized document as it would be written, for
// backup tooling.
func (s *Store) Snapshot() ([]byte, error) {
	return json.MarshalIndent(s.Load(), "", "  ")
}
