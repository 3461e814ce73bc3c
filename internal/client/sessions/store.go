// Package sessions is the durable client-side cache of voting sessions this
// client opened or observed: {topicID -> endTime}. The cache survives
// restarts and is shared by every gvote process pointing at the same local
// database.
package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/dmitrijs2005/gophvote/internal/logging"
	"github.com/goccy/go-json"
)

// Map is the cached projection of voting sessions: topic id to close time.
type Map map[int64]time.Time

// Expired splits m into topics whose window ended at or before now and the
// rest.
func (m Map) Expired(now time.Time) (expired []int64, active Map) {
	active = make(Map, len(m))
	for id, end := range m {
		if !now.Before(end) {
			expired = append(expired, id)
			continue
		}
		active[id] = end
	}
	return expired, active
}

// Store persists Map as a single JSON document under common.SessionsKey.
type Store struct {
	db     *sql.DB
	key    string
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, key: common.SessionsKey, logger: logger}
}

// Load returns the cached sessions. A missing or corrupt document yields an
// empty map and no error; only database failures are returned.
func (s *Store) Load(ctx context.Context) (Map, error) {
	return s.load(ctx, s.db)
}

// Save replaces the whole document in one statement.
func (s *Store) Save(ctx context.Context, m Map) error {
	return s.save(ctx, s.db, m)
}

// Put inserts or overwrites the end time of one topic.
func (s *Store) Put(ctx context.Context, topicID int64, endTime time.Time) error {
	return s.update(ctx, func(m Map) bool {
		m[topicID] = normalize(endTime)
		return true
	})
}

func (s *Store) Remove(ctx context.Context, topicID int64) error {
	return s.RemoveMany(ctx, []int64{topicID})
}

// RemoveMany deletes the given topics. Nothing is written when none of them
// is cached.
func (s *Store) RemoveMany(ctx context.Context, topicIDs []int64) error {
	return s.update(ctx, func(m Map) bool {
		changed := false
		for _, id := range topicIDs {
			if _, ok := m[id]; ok {
				delete(m, id)
				changed = true
			}
		}
		return changed
	})
}

// RemoveExpired deletes every session whose window ended at or before now and
// returns their topic ids in ascending order. The decision is made on the
// document as read inside the write transaction, so a session another
// process reopened in the meantime is kept.
func (s *Store) RemoveExpired(ctx context.Context, now time.Time) ([]int64, error) {
	var expired []int64
	err := s.update(ctx, func(m Map) bool {
		ids, active := m.Expired(now)
		if len(ids) == 0 {
			return false
		}
		for id := range m {
			if _, ok := active[id]; !ok {
				delete(m, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		expired = ids
		return true
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// update is a read-modify-write of the whole document inside one
// transaction, so writers touching different topics keep each other's keys.
func (s *Store) update(ctx context.Context, fn func(m Map) bool) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		m, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		if !fn(m) {
			return nil
		}
		return s.save(ctx, tx, m)
	})
}

func (s *Store) load(ctx context.Context, q dbx.DBTX) (Map, error) {
	raw, err := metadata.NewSQLiteRepository(q).Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	m, err := Decode(raw)
	if err != nil {
		s.logger.Warn(ctx, "session cache is corrupt, treating as empty", "error", err)
		return Map{}, nil
	}
	return m, nil
}

func (s *Store) save(ctx context.Context, q dbx.DBTX, m Map) error {
	raw, err := Encode(m)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := metadata.NewSQLiteRepository(q).Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

// Encode serializes m as {"<topicID>": <end time in unix milliseconds>}.
func Encode(m Map) ([]byte, error) {
	doc := make(map[string]int64, len(m))
	for id, end := range m {
		doc[strconv.FormatInt(id, 10)] = end.UnixMilli()
	}
	return json.Marshal(doc)
}

// Decode is the inverse of Encode. Empty input decodes to an empty map.
func Decode(raw []byte) (Map, error) {
	m := Map{}
	if len(raw) == 0 {
		return m, nil
	}
	var doc map[string]int64
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Map{}, err
	}
	for k, ms := range doc {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return Map{}, fmt.Errorf("bad topic id %q: %w", k, err)
		}
		m[id] = time.UnixMilli(ms).UTC()
	}
	return m, nil
}

// normalize drops precision the document cannot carry, so a value read back
// equals the value written.
func normalize(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}
