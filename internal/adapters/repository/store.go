// Package repository defines the persisted score cache and its errors.
package repository

import (
	"context"

	"github.com/user7217/OSS-Engine/internal/domain/score"
)

// Store provides read/merge access to the persisted score records.
//
// MergeAndSave is the only write path: it loads the current record for
// key (or an empty one), overlays the fields carried by patch, and
// persists the merged result. Concurrent writers to the same key race on
// last-write-wins per field; the implementation serializes only the
// physical read-modify-write cycle, never cross-field invariants.
type Store interface {
	// Get returns the record for key and whether one exists.
	Get(ctx context.Context, key string) (score.Record, bool, error)

	// MergeAndSave overlays patch onto the stored record for key and
	// persists the result, returning the merged record.
	MergeAndSave(ctx context.Context, key string, patch score.Record) (score.Record, error)
}
