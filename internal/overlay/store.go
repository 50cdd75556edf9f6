// Package overlay persists the device-scoped like/save/hide state as three
// independent string-set slots, one JSON file per slot. Reads never fail:
// missing or corrupt files count as an empty set so a damaged state directory
// can only lose overlay data, never break the catalog.
package overlay

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Slot names one of the persisted id sets.
type Slot string

const (
	SlotLiked           Slot = "liked"
	SlotSaved           Slot = "saved"
	SlotDeletedFallback Slot = "deleted_fallback"
)

// Set is an id set that remembers insertion order for stable persistence.
type Set struct {
	order  []string
	member map[string]bool
}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...string) *Set {
	s := &Set{member: make(map[string]bool)}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports membership of id.
func (s *Set) Contains(id string) bool {
	return s != nil && s.member[id]
}

// Add inserts id, keeping first-insertion order.
func (s *Set) Add(id string) {
	if s.member[id] {
		return
	}
	s.member[id] = true
	s.order = append(s.order, id)
}

// Remove deletes id if present.
func (s *Set) Remove(id string) {
	if !s.member[id] {
		return
	}
	delete(s.member, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns the ids in insertion order.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Store is the overlay persistence contract consumed by the catalog.
type Store interface {
	// Read returns the set stored under slot. Missing or corrupt data
	// yields an empty set, never an error.
	Read(slot Slot) *Set
	// Write replaces the set stored under slot.
	Write(slot Slot, set *Set) error
}

// FileStore keeps one JSON array file per slot under a state directory,
// mirroring the one-browser-storage-key-per-slot layout of the web app.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fs *FileStore) path(slot Slot) string {
	return filepath.Join(fs.dir, string(slot)+".json")
}

func (fs *FileStore) Read(slot Slot) *Set {
	data, err := os.ReadFile(fs.path(slot))
	if err != nil {
		return NewSet()
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		// Corrupt slot file. Treat as empty rather than failing the load.
		return NewSet()
	}
	return NewSet(ids...)
}

func (fs *FileStore) Write(slot Slot, set *Set) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}
	ids := set.IDs()
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path(slot), data, 0600)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	slots map[Slot]*Set
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[Slot]*Set)}
}

func (ms *MemStore) Read(slot Slot) *Set {
	if set, ok := ms.slots[slot]; ok {
		return NewSet(set.IDs()...)
	}
	return NewSet()
}

func (ms *MemStore) Write(slot Slot, set *Set) error {
	ms.slots[slot] = NewSet(set.IDs()...)
	return nil
}
