package failures

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"appshots/models"
	"appshots/utils"

	pebble "github.com/cockroachdb/pebble"
)

// Stages a failure can be recorded at.
const (
	StageSave    = "save"
	StagePublish = "publish"
)

// FailureRecord is one artifact that could not be written or published
type FailureRecord struct {
	RunID     string    `json:"run_id"`
	Rank      int       `json:"rank"`
	Target    string    `json:"target"`
	Source    string    `json:"source"`
	Stage     string    `json:"stage"`
	Backend   string    `json:"backend,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

var db *pebble.DB

// Init initializes the failure store
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open failure store: %w", err)
	}
	return nil
}

// Close closes the failure store
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// Enabled reports whether Init has been called.
func Enabled() bool { return db != nil }

// Key returns the store key of a failure. Publish failures are suffixed with
// the backend so they do not overwrite the save outcome of the same artifact.
func Key(runID string, res models.Result, stage, backend string) string {
	key := models.RecordKey(runID, res.Target, res.Rank)
	if stage == StagePublish {
		key += "/" + StagePublish + "/" + backend
	}
	return key
}

// StoreFailure records a failed artifact. backend is empty for StageSave.
func StoreFailure(runID string, res models.Result, stage, backend string, cause error) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}
	if cause == nil {
		cause = res.Err
	}

	record := FailureRecord{
		RunID:     runID,
		Rank:      res.Rank,
		Target:    res.Target,
		Source:    res.Source,
		Stage:     stage,
		Backend:   backend,
		Timestamp: time.Now(),
	}
	if cause != nil {
		record.Error = cause.Error()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failure record: %w", err)
	}

	return db.Set([]byte(Key(runID, res, stage, backend)), data, pebble.Sync)
}

// GetFailure retrieves a failure record by key, nil if absent
func GetFailure(key string) (*FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	data, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get failure: %w", err)
	}
	defer closer.Close()

	var record FailureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failure record: %w", err)
	}

	return &record, nil
}

// DeleteFailure removes a failure record
func DeleteFailure(key string) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}
	return db.Delete([]byte(key), pebble.Sync)
}

// ListRun returns the failures of one run in key order
func ListRun(runID string) ([]FailureRecord, error) {
	prefix := []byte(runID + "/")
	return list(&pebble.IterOptions{LowerBound: prefix, UpperBound: utils.PrefixUpperBound(prefix)})
}

// ListFailures returns all failure records
func ListFailures() ([]FailureRecord, error) {
	return list(&pebble.IterOptions{})
}

func list(opts *pebble.IterOptions) ([]FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	iter, err := db.NewIter(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var records []FailureRecord
	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		records = append(records, record)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return records, nil
}

// CleanupOldRecords removes failure records older than maxAge
func CleanupOldRecords(maxAge time.Duration) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("failure store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, err
	}

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}

	for _, key := range keysToDelete {
		if err := db.Delete(key, pebble.Sync); err != nil {
			return 0, fmt.Errorf("failed to delete old failure record: %w", err)
		}
	}

	return len(keysToDelete), nil
}
