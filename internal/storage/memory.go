package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps objects in process. URLs follow the Firebase download format.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	host    string
	bucket  string

	// FailPut, when set, is returned by every Put.
	FailPut error
}

func NewMemoryStore(host, bucket string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object), host: host, bucket: bucket}
}

func (m *MemoryStore) Put(_ context.Context, obj Object) (string, error) {
	if m.FailPut != nil {
		return "", m.FailPut
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	obj.Data = data

	m.mu.Lock()
	m.objects[obj.Path] = obj
	m.mu.Unlock()
	return DownloadURL(m.host, m.bucket, obj.Path, obj.Metadata[DownloadTokenKey]), nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; !ok {
		return fmt.Errorf("object %q not found", path)
	}
	delete(m.objects, path)
	return nil
}

// Get returns the stored object at path.
func (m *MemoryStore) Get(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj, ok
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
