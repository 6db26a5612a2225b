package classification

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// LabelStore loads candidate label sets from <dir>/<domain>_labels.json.
// A set is read once and cached for the process lifetime.
type LabelStore struct {
	dir string

	mu    sync.RWMutex
	cache map[service.Domain][]string
}

// NewLabelStore creates a label store rooted at dir
func NewLabelStore(dir string) *LabelStore {
	return &LabelStore{dir: dir, cache: make(map[service.Domain][]string)}
}

// Path returns the label file location for a domain
func (s *LabelStore) Path(domain service.Domain) string {
	return filepath.Join(s.dir, string(domain)+"_labels.json")
}

// Exists reports whether a label file is present for domain
func (s *LabelStore) Exists(domain service.Domain) bool {
	s.mu.RLock()
	_, ok := s.cache[domain]
	s.mu.RUnlock()
	if ok {
		return true
	}
	_, err := os.Stat(s.Path(domain))
	return err == nil
}

// Load returns the candidate labels for domain
func (s *LabelStore) Load(domain service.Domain) ([]string, error) {
	s.mu.RLock()
	labels, ok := s.cache[domain]
	s.mu.RUnlock()
	if ok {
		return labels, nil
	}

	data, err := os.ReadFile(s.Path(domain))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(domain), err)
	}

	s.mu.Lock()
	s.cache[domain] = labels
	s.mu.Unlock()
	return labels, nil
}
