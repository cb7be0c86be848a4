package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/layer-3/facegate/core"
)

// RecordName is the fixed key the credential record is stored under.
const RecordName = "authToken"

// FileStore is a DurableLayer keeping the single credential record as a
// JSON file on disk, so a committed session survives process restarts.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed durable layer rooted at dir. The
// record lives at dir/authToken.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, RecordName+".json")}
}

// Write persists the record, replacing any previous one.
func (s *FileStore) Write(ctx context.Context, rec core.TokenRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode token record: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token record: %w", err)
	}

	return nil
}

// Read returns the current record. A missing file or one that does not
// decode is reported as absent, not as an error.
func (s *FileStore) Read(ctx context.Context) (core.TokenRecord, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.TokenRecord{}, false, nil
		}
		return core.TokenRecord{}, false, fmt.Errorf("failed to read token record: %w", err)
	}

	var rec core.TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Fail closed: an undecodable record is treated as absent
		return core.TokenRecord{}, false, nil
	}

	return rec, true, nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token record: %w", err)
	}
	return nil
}
