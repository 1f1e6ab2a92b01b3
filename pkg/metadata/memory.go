package metadata

import (
	"fmt"
	"maps"
	"sync"
)

// Memory is a Store that keeps metadata in memory, keyed by path.
type Memory struct {
	mu     sync.Mutex
	files  map[string]map[string]string
	writes map[string]int

	// OpenErr and FlushErr, when set for a path, are returned by Open and Flush.
	OpenErr  map[string]error
	FlushErr map[string]error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		files:    map[string]map[string]string{},
		writes:   map[string]int{},
		OpenErr:  map[string]error{},
		FlushErr: map[string]error{},
	}
}

// Put seeds the stored metadata of path.
func (m *Memory) Put(path string, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = maps.Clone(fields)
}

// Fields returns a copy of the stored metadata of path.
func (m *Memory) Fields(path string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.files[path])
}

// Writes returns how many times metadata was flushed for path.
func (m *Memory) Writes(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[path]
}

// Open implements Store.
func (m *Memory) Open(path string) (Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.OpenErr[path]; err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	current := maps.Clone(m.files[path])
	if current == nil {
		current = map[string]string{}
	}
	return &memoryFields{
		m:       m,
		path:    path,
		current: current,
		pending: map[string]string{},
	}, nil
}

type memoryFields struct {
	m       *Memory
	path    string
	current map[string]string
	pending map[string]string
}

func (f *memoryFields) Get(key string) (string, bool) {
	if v, ok := f.pending[key]; ok {
		return v, true
	}
	v, ok := f.current[key]
	return v, ok
}

func (f *memoryFields) Contains(key string) bool {
	_, ok := f.Get(key)
	return ok
}

func (f *memoryFields) Set(key string, value string) {
	f.pending[key] = value
}

func (f *memoryFields) Flush() error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if err := f.m.FlushErr[f.path]; err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if len(f.pending) == 0 {
		return nil
	}

	stored := f.m.files[f.path]
	if stored == nil {
		stored = map[string]string{}
		f.m.files[f.path] = stored
	}
	for k, v := range f.pending {
		stored[k] = v
		f.current[k] = v
	}
	f.pending = map[string]string{}
	f.m.writes[f.path]++
	return nil
}
