package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/utils"
)

// Repository serves the immutable question bank with a TTL memo so a large
// bank file is not re-parsed on every request. The cached slice is swapped
// as a whole on refresh; readers never see a partially refreshed bank.
type Repository struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	cached   []models.Question
	loadedAt time.Time
}

func NewRepository(path string, ttl time.Duration) *Repository {
	return &Repository{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// GetAll returns the bank, reloading it when the cache window has expired.
// A failed reload degrades to the previous snapshot (or an empty bank when
// nothing was ever loaded) instead of surfacing an error.
func (r *Repository) GetAll() []models.Question {
	r.mu.RLock()
	if r.cached != nil && r.now().Sub(r.loadedAt) < r.ttl {
		questions := r.cached
		r.mu.RUnlock()
		return questions
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if r.cached != nil && r.now().Sub(r.loadedAt) < r.ttl {
		return r.cached
	}

	questions, err := loadQuestions(r.path)
	if err != nil {
		utils.LogBank("Reload of %s failed: %v", r.path, err)
		if r.cached != nil {
			return r.cached
		}
		return []models.Question{}
	}

	r.cached = questions
	r.loadedAt = r.now()
	utils.LogBank("Loaded %d questions from %s", len(questions), r.path)
	return questions
}

// ByID scans the current bank for one question.
func (r *Repository) ByID(id int) (models.Question, bool) {
	for _, q := range r.GetAll() {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

// Invalidate drops the cache so the next GetAll reloads. Used after a
// restore replaces the bank file.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// loadQuestions picks the parser by file extension: a pre-imported SQLite
// bank when it is one, otherwise the JSON bank document.
func loadQuestions(path string) ([]models.Question, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(path)
	default:
		return loadJSON(path)
	}
}

func loadJSON(path string) ([]models.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}

	var doc struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse bank file: %w", err)
	}
	return doc.Questions, nil
}
