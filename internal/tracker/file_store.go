package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// FileStore persists a namespace as a single JSON document.
type FileStore struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]string // Full document, mirrored to disk on every write
	logger   logging.Logger    // Use the interface type
}

// NewFileStore creates or loads the store for namespace inside dir.
func NewFileStore(dir, namespace string) (*FileStore, error) {
	logger := logging.Get().Named("file_store")
	if dir == "" {
		dir = "."
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	filePath := filepath.Join(dir, namespace+".json")

	s := &FileStore{
		filePath: filePath,
		values:   make(map[string]string),
		logger:   logger,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load preferences from %s: %w", filePath, err)
	}

	s.logger.Debug("FileStore initialized.", "path", filePath, "loaded_keys", len(s.values))
	return s, nil
}

// load reads the document into memory.
func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err // Handles os.IsNotExist
	}
	if len(data) == 0 {
		// Treat an empty file like a missing one
		s.values = make(map[string]string)
		return nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to unmarshal preferences file %s: %w", s.filePath, err)
	}
	s.values = values
	return nil
}

// save writes the document back to disk. Callers hold the write lock.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	// Write atomically via temp file rename
	tempFilePath := s.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp preferences file %s: %w", tempFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temp preferences file to %s: %w", s.filePath, err)
	}
	return nil
}

// Get reads from memory only; the document is loaded once at startup.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set updates the value in memory first so later reads see it even if the write to disk fails.
func (s *FileStore) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// Clear empties the namespace and writes the empty document.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return s.save()
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.filePath
}
