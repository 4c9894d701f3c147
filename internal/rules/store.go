package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/autoseat/claimlens/internal/model"
)

// Persistence abstracts where the active rule set is stored so the backend
// is swappable in tests
type Persistence interface {
	// Load returns the persisted rule set, or (nil, nil) when none exists
	Load() (*model.ClassificationRuleSet, error)
	Save(rs *model.ClassificationRuleSet) error
}

// Store owns the process-wide active rule set. Reads hand out deep-copied
// snapshots and writes replace the set wholesale, so classification runs
// never observe a partially applied policy.
type Store struct {
	mu      sync.RWMutex
	active  *model.ClassificationRuleSet
	persist Persistence
}

// NewStore seeds the store from persisted storage when present and
// schema-valid, otherwise from the built-in defaults
func NewStore(p Persistence) *Store {
	s := &Store{persist: p}
	if p != nil {
		if stored, err := p.Load(); err == nil && stored != nil {
			if ValidateRuleSet(stored) == nil {
				s.active = stored
				return s
			}
		}
	}
	s.active = DefaultRuleSet()
	return s
}

// Active returns a deep-copied snapshot of the current rule set
func (s *Store) Active() *model.ClassificationRuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// SetActive validates, deep-copies and swaps in a new rule set, then
// re-persists it unless persist is false
func (s *Store) SetActive(rs *model.ClassificationRuleSet, persist bool) error {
	if err := ValidateRuleSet(rs); err != nil {
		return err
	}
	clone := rs.Clone()

	s.mu.Lock()
	s.active = clone
	s.mu.Unlock()

	if persist && s.persist != nil {
		if err := s.persist.Save(clone); err != nil {
			return fmt.Errorf("persist rule set: %w", err)
		}
	}
	return nil
}

// Reset restores the built-in default rule set
func (s *Store) Reset() error {
	return s.SetActive(DefaultRuleSet(), true)
}

// DeleteRule removes a rule from a taxonomy list. Deleting the fallback
// rule, or the last remaining rule, is rejected so every claim stays
// classifiable.
func (s *Store) DeleteRule(cat model.RuleCategory, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.active.Category(cat)
	if list == nil {
		return fmt.Errorf("unknown rule category %q", cat)
	}
	fallback := model.FallbackRule(list)

	index := -1
	for i, rule := range list {
		if rule.Code == code {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("%s: no rule with code %q", cat, code)
	}
	if fallback != nil && fallback.Code == code {
		return fmt.Errorf("%s: cannot delete the fallback rule %q", cat, code)
	}
	if len(list) == 1 {
		return fmt.Errorf("%s: cannot delete the last remaining rule", cat)
	}

	updated := make([]model.ClassificationRule, 0, len(list)-1)
	updated = append(updated, list[:index]...)
	updated = append(updated, list[index+1:]...)
	s.active.SetCategory(cat, updated)

	if s.persist != nil {
		if err := s.persist.Save(s.active); err != nil {
			return fmt.Errorf("persist rule set: %w", err)
		}
	}
	return nil
}

// FilePersistence stores the rule set as an indented JSON file
type FilePersistence struct {
	path string
}

// NewFilePersistence creates a file-backed persistence port
func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

// Load reads and decodes the persisted rule set; a missing file is not an
// error
func (p *FilePersistence) Load() (*model.ClassificationRuleSet, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	var rs model.ClassificationRuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode rule file: %w", err)
	}
	return &rs, nil
}

// Save writes the rule set with stable indentation
func (p *FilePersistence) Save(rs *model.ClassificationRuleSet) error {
	text, err := SerializeRuleSet(rs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create rule dir: %w", err)
		}
	}
	if err := os.WriteFile(p.path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("write rule file: %w", err)
	}
	return nil
}

// MemoryPersistence keeps the rule set in memory; used by tests and by
// callers that opt out of persistence entirely
type MemoryPersistence struct {
	mu sync.Mutex
	rs *model.ClassificationRuleSet
}

// NewMemoryPersistence creates an empty in-memory persistence port
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// Load returns the stored rule set, or (nil, nil) when none was saved
func (p *MemoryPersistence) Load() (*model.ClassificationRuleSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rs == nil {
		return nil, nil
	}
	return p.rs.Clone(), nil
}

// Save stores a deep copy of the rule set
func (p *MemoryPersistence) Save(rs *model.ClassificationRuleSet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rs = rs.Clone()
	return nil
}
