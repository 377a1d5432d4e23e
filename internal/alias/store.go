// Package alias persists the mapping from local account names to the
// external statement identifiers known to refer to them.
package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Map associates each local account name with the external account
// identifiers previously matched to it. Each external identifier should
// appear under at most one account; lookups take the first match over the
// account names in ascending order.
type Map map[string][]string

// Resolve returns the local account name an external identifier maps to.
func (m Map) Resolve(externalID string) (string, bool) {
	// Map iteration order is randomized; sort so "first match wins" is
	// deterministic across runs.
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, id := range m[name] {
			if id == externalID {
				return name, true
			}
		}
	}
	return "", false
}

// Add records an external identifier under the given account. Adding an
// identifier the account already carries is a no-op.
func (m Map) Add(account, externalID string) {
	for _, id := range m[account] {
		if id == externalID {
			return
		}
	}
	m[account] = append(m[account], externalID)
}

// EnsureAccounts guarantees every given account has an alias set, creating
// empty ones as needed. Existing sets are left untouched.
func (m Map) EnsureAccounts(names []string) {
	for _, name := range names {
		if _, ok := m[name]; !ok {
			m[name] = []string{}
		}
	}
}

// Store reads and writes the alias map as a JSON file. The file is
// read-modify-written as a whole; concurrent writers would race (last writer
// wins), which is accepted under the single-operator model.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the alias map from disk. A missing file yields an empty map so
// the first import run can lazily initialize it.
func (s *Store) Load() (Map, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode alias file %s: %w", s.path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Save writes the alias map back to disk, creating the parent directory if
// needed.
func (s *Store) Save(m Map) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create alias directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode alias map: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write alias file: %w", err)
	}
	return nil
}
