package mosaic

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ResultStore keeps the latest result per puzzle name for the HTTP and MQTT
// services.
type ResultStore struct {
	mu        sync.RWMutex
	saveMu    sync.Mutex // orders snapshots and cache writes
	results   map[string]*Result
	latest    string
	cachePath string // path to the JSON summary cache; empty disables persistence
}

// NewResultStore creates an empty result store
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]*Result),
	}
}

// NewResultStoreWithCache creates a store that persists result summaries to
// cachePath. Summaries already in the file are loaded on creation; they carry
// the scores and placements but no picture.
func NewResultStoreWithCache(cachePath string) *ResultStore {
	st := NewResultStore()
	st.cachePath = cachePath
	if cachePath == "" {
		return st
	}
	results, err := LoadResults(cachePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: ignoring result cache %s: %v", cachePath, err)
		}
		return st
	}
	var newest int64
	for _, r := range results {
		st.results[r.Name] = r
		if r.SolvedAt >= newest {
			newest = r.SolvedAt
			st.latest = r.Name
		}
	}
	return st
}

// Put stores res under its name and marks it as the latest result.
func (st *ResultStore) Put(res *Result) {
	if res == nil {
		return
	}
	st.saveMu.Lock()
	defer st.saveMu.Unlock()

	st.mu.Lock()
	st.results[res.Name] = res
	st.latest = res.Name
	snapshot := st.snapshotLocked()
	cachePath := st.cachePath
	st.mu.Unlock()

	if cachePath != "" {
		if err := SaveResults(snapshot, cachePath); err != nil {
			log.Printf("warning: failed to save result cache: %v", err)
		}
	}
}

// Get returns the result stored under name.
func (st *ResultStore) Get(name string) (*Result, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	r, ok := st.results[name]
	return r, ok
}

// Latest returns the most recently stored result.
func (st *ResultStore) Latest() (*Result, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	r, ok := st.results[st.latest]
	return r, ok
}

// Names returns the stored puzzle names in sorted order.
func (st *ResultStore) Names() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	names := make([]string, 0, len(st.results))
	for name := range st.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored results.
func (st *ResultStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.results)
}

func (st *ResultStore) snapshotLocked() []*Result {
	out := make([]*Result, 0, len(st.results))
	for _, r := range st.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SaveResults writes result summaries to disk as JSON. The file is written
// under a temporary name and renamed into place, so readers never see a
// partial cache.
func SaveResults(results []*Result, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write result cache: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write result cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write result cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace result cache: %w", err)
	}
	return nil
}

// LoadResults reads result summaries written by SaveResults.
func LoadResults(path string) ([]*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []*Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("unmarshal result cache: %w", err)
	}
	return results, nil
}
