package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user7217/OSS-Engine/internal/domain/score"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

const defaultCachePath = "score_cache.json"

// FileStore implements Store on a single JSON document mapping record
// keys to score records. The whole document is re-read on every access
// so an operator can inspect or edit the file between requests; writes
// go through a temp file plus atomic rename so a crash between write and
// next read never leaves a torn file behind.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// NewFileStore creates a file-backed store with configuration options.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		path:   defaultCachePath,
		logger: logger.Get().Named("cache"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the record stored for key, if any.
func (s *FileStore) Get(ctx context.Context, key string) (score.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	rec, ok := records[key]
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return rec, ok, nil
}

// MergeAndSave overlays patch onto the current record for key and
// persists the whole document. The mutex covers the full
// load-overlay-save cycle.
func (s *FileStore) MergeAndSave(ctx context.Context, key string, patch score.Record) (score.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	merged := records[key].Merge(patch)
	records[key] = merged

	if err := s.save(records); err != nil {
		metrics.RecordCacheWriteError()
		return score.Record{}, fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return merged, nil
}

// load reads the full document. An absent, unreadable or corrupt file is
// treated as an empty store: the cache fails open so scoring is never
// blocked by cache state.
func (s *FileStore) load(ctx context.Context) map[string]score.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn(ctx, "cache file unreadable, treating as empty",
				logger.String("path", s.path), logger.Error(err))
		}
		return make(map[string]score.Record)
	}

	records := make(map[string]score.Record)
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn(ctx, "cache file corrupt, treating as empty",
			logger.String("path", s.path), logger.Error(err))
		return make(map[string]score.Record)
	}
	return records
}

func (s *FileStore) save(records map[string]score.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
