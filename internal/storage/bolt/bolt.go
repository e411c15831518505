package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/matcher"
	"github.com/statusdesk/status-admin/internal/metrics"
	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/storage"
)

var _ storage.Store = (*Store)(nil)

var (
	bucketStatuses  = []byte("statuses")
	bucketStatusLog = []byte("status_logs")
)

// Store is a BoltDB-backed Store implementation. Each status is one JSON
// document keyed by its id.
type Store struct {
	db     *bolt.DB
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report unreadable documents.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New initialises the Bolt store.
func New(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketStatuses); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketStatusLog)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes underlying Bolt DB.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertStatus assigns an id (when empty), stamps create/update times and
// stores the document.
func (s *Store) InsertStatus(ctx context.Context, status *model.Status) (*model.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := status.Clone()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := s.now()
	doc.CreateTime = now
	doc.UpdateTime = now
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatuses)
		if bkt.Get([]byte(doc.ID)) != nil {
			return fmt.Errorf("status %s: %w", doc.ID, storage.ErrConflict)
		}
		return bkt.Put([]byte(doc.ID), payload)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetStatus fetches a status by id.
func (s *Store) GetStatus(ctx context.Context, id string) (*model.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var result *model.Status
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketStatuses).Get([]byte(id))
		if v == nil {
			return storage.ErrNotFound
		}
		var status model.Status
		if err := json.Unmarshal(v, &status); err != nil {
			return err
		}
		result = &status
		return nil
	})
	return result, err
}

// UpdateStatus applies patch to the stored document in a single transaction.
// check sees the merged document, so it validates against what is actually
// committed rather than an earlier read.
func (s *Store) UpdateStatus(ctx context.Context, id string, patch model.StatusPatch, check func(*model.Status) error) (*model.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var result *model.Status
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatuses)
		v := bkt.Get([]byte(id))
		if v == nil {
			return storage.ErrNotFound
		}
		var status model.Status
		if err := json.Unmarshal(v, &status); err != nil {
			return err
		}
		patch.Apply(&status)
		if check != nil {
			if err := check(&status); err != nil {
				return err
			}
		}
		status.ID = id
		status.UpdateTime = s.now()
		payload, err := json.Marshal(&status)
		if err != nil {
			return err
		}
		result = &status
		return bkt.Put([]byte(id), payload)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteStatus removes a status permanently.
func (s *Store) DeleteStatus(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatuses)
		if bkt.Get([]byte(id)) == nil {
			return storage.ErrNotFound
		}
		return bkt.Delete([]byte(id))
	})
}

// FindStatuses returns the filtered, sorted statuses in [skip, skip+limit).
// A non-positive limit returns everything after skip.
func (s *Store) FindStatuses(ctx context.Context, filter storage.StatusFilter, skip, limit int) ([]*model.Status, error) {
	statuses, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortStatuses(statuses, filter.SortBy)
	if skip < 0 {
		skip = 0
	}
	if skip > len(statuses) {
		skip = len(statuses)
	}
	end := len(statuses)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return statuses[skip:end], nil
}

// CountStatuses returns how many statuses match filter.
func (s *Store) CountStatuses(ctx context.Context, filter storage.StatusFilter) (int, error) {
	statuses, err := s.list(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(statuses), nil
}

func (s *Store) list(ctx context.Context, filter storage.StatusFilter) ([]*model.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := filter.Now
	if now.IsZero() {
		now = s.now()
	}
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	var statuses []*model.Status
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatuses)
		return bkt.ForEach(func(k, v []byte) error {
			var status model.Status
			if err := json.Unmarshal(v, &status); err != nil {
				metrics.CorruptDocuments.Inc()
				s.logger.Warn("skipping undecodable status document",
					zap.ByteString("status_id", k),
					zap.Error(err),
				)
				return nil
			}
			if filter.Activated != nil && status.IsActivated != *filter.Activated {
				return nil
			}
			if filter.Type != "" && !strings.EqualFold(status.Type, filter.Type) {
				return nil
			}
			if keyword != "" && !strings.Contains(strings.ToLower(status.Title), keyword) {
				return nil
			}
			if !filter.Window.Contains(&status, now) {
				return nil
			}
			copied := status
			statuses = append(statuses, &copied)
			return nil
		})
	})
	return statuses, err
}

func sortStatuses(statuses []*model.Status, by model.StatusField) {
	if by == model.FieldStartTime {
		matcher.SortByStart(statuses)
		return
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		if !statuses[i].CreateTime.Equal(statuses[j].CreateTime) {
			return statuses[i].CreateTime.After(statuses[j].CreateTime)
		}
		return statuses[i].ID < statuses[j].ID
	})
}

// AppendStatusLog stores an audit entry with a sequential id.
func (s *Store) AppendStatusLog(ctx context.Context, log *model.StatusLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatusLog)
		id, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		log.ID = id
		payload, err := json.Marshal(log)
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, id)
		return bkt.Put(key, payload)
	})
}

// ListStatusLogs returns all audit entries in insertion order.
func (s *Store) ListStatusLogs(ctx context.Context) ([]*model.StatusLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var logs []*model.StatusLog
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketStatusLog)
		return bkt.ForEach(func(_, v []byte) error {
			var log model.StatusLog
			if err := json.Unmarshal(v, &log); err != nil {
				return err
			}
			copied := log
			logs = append(logs, &copied)
			return nil
		})
	})
	return logs, err
}
