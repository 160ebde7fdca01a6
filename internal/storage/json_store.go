package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore persists a snapshot of in-memory service state to a JSON
// file. Saves write a temp file and rename so a crash mid-write never
// leaves a truncated snapshot.
type JSONStore struct {
	mu       sync.RWMutex
	filePath string
}

func NewJSONStore(dataDir, filename string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return &JSONStore{
		filePath: filepath.Join(dataDir, filename),
	}, nil
}

// Load decodes the snapshot into data. A missing file is not an error;
// the caller starts empty.
func (s *JSONStore) Load(data interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(data)
}

func (s *JSONStore) Save(data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}
