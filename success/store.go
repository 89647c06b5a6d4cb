package success

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"appshots/models"
	"appshots/utils"

	pebble "github.com/cockroachdb/pebble"
)

// SuccessRecord is one artifact that was written.
type SuccessRecord struct {
	RunID     string    `json:"run_id"`
	Rank      int       `json:"rank"`
	Target    string    `json:"target"`
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

var db *pebble.DB

// Init opens (or creates) the success store at dbPath
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open success store: %w", err)
	}
	return nil
}

// Close closes the success store
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

// StoreSuccess records a written artifact under models.RecordKey
func StoreSuccess(runID string, res models.Result) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}

	record := SuccessRecord{
		RunID:     runID,
		Rank:      res.Rank,
		Target:    res.Target,
		Source:    res.Source,
		Output:    res.Output,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal success record: %w", err)
	}

	key := []byte(models.RecordKey(runID, res.Target, res.Rank))
	return db.Set(key, data, pebble.Sync)
}

// GetSuccess returns the record for key, or nil if there is none
func GetSuccess(key string) (*SuccessRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	data, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get success record: %w", err)
	}
	defer closer.Close()

	var record SuccessRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal success record: %w", err)
	}

	return &record, nil
}

// ListRun returns the records of one run in key order
func ListRun(runID string) ([]SuccessRecord, error) {
	prefix := []byte(runID + "/")
	return list(&pebble.IterOptions{LowerBound: prefix, UpperBound: utils.PrefixUpperBound(prefix)})
}

// ListSuccessRecords returns every record in the store
func ListSuccessRecords() ([]SuccessRecord, error) {
	return list(&pebble.IterOptions{})
}

func list(opts *pebble.IterOptions) ([]SuccessRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	iter, err := db.NewIter(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var records []SuccessRecord
	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
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

// CleanupOldRecords removes records older than maxAge and returns how many
// were deleted
func CleanupOldRecords(maxAge time.Duration) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("success store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, err
	}

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
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
			return 0, fmt.Errorf("failed to delete old success record: %w", err)
		}
	}

	return len(keysToDelete), nil
}
