// Package session holds the client-side session state: a small persisted
// key-value store, the typed session record derived from it, and the
// routing state machine computed over both.
package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Store is the persisted key-value surface the session lives in. It
// mirrors browser local storage: string keys, string values, no schema.
type Store interface {
	// Get returns the last written value and whether the key was ever set.
	Get(key string) (string, bool)
	// Set overwrites key unconditionally.
	Set(key, value string)
	// Remove deletes one key.
	Remove(key string)
	// Clear deletes all keys.
	Clear()
}

// FileStore persists the map as a JSON file after every write. Persistence
// is best-effort: a failed write leaves the in-memory map serving reads
// for the rest of the process, the same way a full browser storage quota
// degrades to in-memory state.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// NewFileStore loads the store from path. A missing or corrupt file
// yields an empty store.
func NewFileStore(path string) *FileStore {
	fs := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fs
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return fs
	}
	fs.data = data
	return fs
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.data[key]
	return v, ok
}

func (fs *FileStore) Set(key, value string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[key] = value
	fs.persist()
}

func (fs *FileStore) Remove(key string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.data, key)
	fs.persist()
}

func (fs *FileStore) Clear() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data = make(map[string]string)
	fs.persist()
}

// persist writes the map to disk, swallowing failures. Callers must hold
// fs.mu.
func (fs *FileStore) persist() {
	raw, err := json.Marshal(fs.data)
	if err != nil {
		return
	}
	_ = os.WriteFile(fs.path, raw, 0o600)
}

// MemStore is the in-memory Store used in tests and as the degraded mode
// when no file path is available.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (ms *MemStore) Get(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.data[key]
	return v, ok
}

func (ms *MemStore) Set(key, value string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data[key] = value
}

func (ms *MemStore) Remove(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.data, key)
}

func (ms *MemStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data = make(map[string]string)
}
