package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	st := store.New(path, "", "")

	data := st.Load()
	data.Register("alice", &models.UserProfile{PasswordHash: "h"})
	prog, _ := data.Progress("alice")
	prog.Answered[5] = true

	if err := st.Save(data); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A second store over the same file sees the document.
	again := store.New(path, "", "")
	reloaded := again.Load()
	prog, ok := reloaded.Progress("alice")
	if !ok || !prog.Answered[5] {
		t.Errorf("round trip lost data: ok=%v prog=%+v", ok, prog)
	}
}

func TestLoadDegradesToEmptyOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	st := store.New(path, "", "")
	data := st.Load()
	if len(data.Users) != 0 {
		t.Errorf("expected an empty document, got %d users", len(data.Users))
	}
}

func TestLoadFallsBackToEnvSnapshot(t *testing.T) {
	t.Setenv("TEST_USER_DATA", `{"users":{"bob":{"answered_questions":[1]}},"user_profiles":{},"wrong_questions":{},"exam_records":{}}`)

	// No local file exists; the env snapshot is next in line.
	st := store.New(filepath.Join(t.TempDir(), "user_data.json"), "", "TEST_USER_DATA")
	data := st.Load()
	prog, ok := data.Progress("bob")
	if !ok || !prog.Answered[1] {
		t.Errorf("expected the env snapshot, got ok=%v prog=%+v", ok, prog)
	}
}

func TestVolumeTakesPrecedenceOverLocalFile(t *testing.T) {
	volume := t.TempDir()
	local := filepath.Join(t.TempDir(), "user_data.json")

	if err := os.WriteFile(filepath.Join(volume, "user_data.json"),
		[]byte(`{"users":{"from_volume":{}},"user_profiles":{},"wrong_questions":{},"exam_records":{}}`), 0o644); err != nil {
		t.Fatalf("write volume file: %v", err)
	}
	if err := os.WriteFile(local,
		[]byte(`{"users":{"from_local":{}},"user_profiles":{},"wrong_questions":{},"exam_records":{}}`), 0o644); err != nil {
		t.Fatalf("write local file: %v", err)
	}

	st := store.New(local, volume, "")
	data := st.Load()
	if _, ok := data.Users["from_volume"]; !ok {
		t.Error("expected the volume copy to win")
	}
}

func TestSaveWritesAllFileDestinations(t *testing.T) {
	volume := t.TempDir()
	local := filepath.Join(t.TempDir(), "user_data.json")

	st := store.New(local, volume, "")
	data := st.Load()
	data.Register("alice", &models.UserProfile{})
	if err := st.Save(data); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, path := range []string{local, filepath.Join(volume, "user_data.json")} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to be written: %v", path, err)
		}
	}
}

func TestSaveFailsOnlyWhenNothingIsWritable(t *testing.T) {
	t.Setenv("TEST_USER_DATA", "")

	// Only a read-only destination: the save must be surfaced as lost.
	st := store.NewWithDestinations(store.NewEnvDestination("TEST_USER_DATA"))
	err := st.Save(store.NewUserData())
	if !errors.Is(err, store.ErrAllDestinationsFailed) {
		t.Fatalf("expected ErrAllDestinationsFailed, got %v", err)
	}

	// A writable destination alongside makes it a success.
	local := filepath.Join(t.TempDir(), "user_data.json")
	st = store.NewWithDestinations(
		store.NewEnvDestination("TEST_USER_DATA"),
		store.NewFileDestination(local),
	)
	if err := st.Save(store.NewUserData()); err != nil {
		t.Fatalf("expected a degraded save to succeed, got %v", err)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "user_data.json"), "", "")
	if err := st.Save(store.NewUserData()); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "user_data.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the document, got %v", names)
	}
}
