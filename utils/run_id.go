package utils

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID returns a sortable run identifier: a UTC timestamp followed by the
// first block of a random UUID, e.g. 20261017T090102Z-1f0c9a2b.
func NewRunID() string {
	return time.Now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
}

// PrefixUpperBound returns the smallest key greater than every key starting
// with prefix, for use as an exclusive iterator upper bound. It returns nil
// when no such key exists (prefix is all 0xff).
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
