// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/meeplerank/internal/metrics"
	"github.com/tomtom215/meeplerank/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	gameKeyPrefix  = "game:"
	seqKeyPrefix   = "seq:"
	playKeyPrefix  = "play:"
	metaVersionKey = "meta:version"
	metaSeqKey     = "meta:seq"
)

// storedGame is the value stored under game:<id>. Seq fixes the catalog
// position at first insert and survives updates.
type storedGame struct {
	Seq  uint64       `json:"seq"`
	Game *models.Game `json:"game"`
}

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db       *badger.DB
	notifier ChangeNotifier
	now      func() time.Time

	// writeMu serializes writers; every write touches meta:version and
	// would otherwise conflict under badger's optimistic transactions.
	writeMu sync.Mutex
}

// NewBadgerStore creates a store on an open database. notifier may be nil.
func NewBadgerStore(db *badger.DB, notifier ChangeNotifier) *BadgerStore {
	return &BadgerStore{
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
}

func gameKey(id string) []byte {
	return []byte(gameKeyPrefix + id)
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", seqKeyPrefix, seq))
}

func playPrefix(gameID string) []byte {
	return []byte(playKeyPrefix + gameID + ":")
}

func playKey(gameID string, recordedAt time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", playKeyPrefix, gameID, recordedAt.UnixNano(), id))
}

// Get returns the game with the given id.
func (s *BadgerStore) Get(ctx context.Context, id string) (game *models.Game, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("get", time.Since(start), err) }()

	if err := ValidateGameID(id); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		stored, err := loadGame(txn, id)
		if err != nil {
			return err
		}
		game = stored.Game
		return nil
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// List returns every game in catalog order.
func (s *BadgerStore) List(ctx context.Context) (games []*models.Game, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("list", time.Since(start), err) }()

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(seqKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read sequence entry: %w", err)
			}
			stored, err := loadGame(txn, string(id))
			if errors.Is(err, ErrGameNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			games = append(games, stored.Game)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Put inserts or replaces a game, keeping its catalog position on update.
func (s *BadgerStore) Put(ctx context.Context, game *models.Game) (created bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("put", time.Since(start), err) }()

	if game == nil {
		return false, ErrNilGame
	}
	if err := ValidateGameID(game.ID); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	var version uint64
	err = s.db.Update(func(txn *badger.Txn) error {
		var err error
		created, err = putGame(txn, game)
		if err != nil {
			return err
		}
		version, err = bumpVersion(txn)
		return err
	})
	s.writeMu.Unlock()
	if err != nil {
		return false, err
	}

	s.notify(ctx, ChangeGamePut, version, game.ID)
	return created, nil
}

// PutBatch upserts games in one transaction. Later entries for the same id
// win. Nothing is written if any id is invalid.
func (s *BadgerStore) PutBatch(ctx context.Context, games []*models.Game) (result BatchResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("put_batch", time.Since(start), err) }()

	ids := make([]string, 0, len(games))
	for i, game := range games {
		if game == nil {
			return BatchResult{}, fmt.Errorf("games[%d]: %w", i, ErrNilGame)
		}
		if err := ValidateGameID(game.ID); err != nil {
			return BatchResult{}, fmt.Errorf("games[%d]: %w", i, err)
		}
		ids = append(ids, game.ID)
	}
	if len(games) == 0 {
		version, err := s.Version(ctx)
		return BatchResult{Version: version}, err
	}

	s.writeMu.Lock()
	err = s.db.Update(func(txn *badger.Txn) error {
		seen := make(map[string]bool, len(games))
		for _, game := range games {
			created, err := putGame(txn, game)
			if err != nil {
				return err
			}
			switch {
			case created:
				result.Added++
				seen[game.ID] = true
			case !seen[game.ID]:
				result.Updated++
				seen[game.ID] = true
			}
		}
		var err error
		result.Version, err = bumpVersion(txn)
		return err
	})
	s.writeMu.Unlock()
	if err != nil {
		return BatchResult{}, err
	}

	s.notify(ctx, ChangeBatch, result.Version, ids...)
	return result, nil
}

// Delete removes a game, its sequence entry and its plays.
func (s *BadgerStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("delete", time.Since(start), err) }()

	if err := ValidateGameID(id); err != nil {
		return err
	}

	s.writeMu.Lock()
	var version uint64
	err = s.db.Update(func(txn *badger.Txn) error {
		stored, err := loadGame(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(gameKey(id)); err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		if err := txn.Delete(seqKey(stored.Seq)); err != nil {
			return fmt.Errorf("delete sequence entry: %w", err)
		}

		playKeys, err := collectKeys(txn, playPrefix(id))
		if err != nil {
			return err
		}
		for _, k := range playKeys {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("delete play: %w", err)
			}
		}

		version, err = bumpVersion(txn)
		return err
	})
	s.writeMu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, ChangeGameDeleted, version, id)
	return nil
}

// RecordPlay stores a play activity. The game's last-played day moves
// forward only, and its play counter grows by one. Missing ids and
// timestamps on play are filled in.
func (s *BadgerStore) RecordPlay(ctx context.Context, play models.PlayActivity) (game *models.Game, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("record_play", time.Since(start), err) }()

	if err := ValidatePlay(play); err != nil {
		return nil, err
	}
	if play.ID == "" {
		play.ID = uuid.NewString()
	}
	if play.RecordedAt.IsZero() {
		play.RecordedAt = s.now().UTC()
	}

	s.writeMu.Lock()
	var version uint64
	err = s.db.Update(func(txn *badger.Txn) error {
		stored, err := loadGame(txn, play.GameID)
		if err != nil {
			return err
		}

		game = stored.Game
		if play.Day.After(game.LastPlayed) {
			game.LastPlayed = play.Day
		}
		game.TotalPlays++

		if err := setJSON(txn, gameKey(game.ID), stored); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		if err := setJSON(txn, playKey(play.GameID, play.RecordedAt, play.ID), play); err != nil {
			return fmt.Errorf("store play: %w", err)
		}

		version, err = bumpVersion(txn)
		return err
	})
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	metrics.RecordPlayActivity(string(play.Location))
	s.notify(ctx, ChangePlayRecorded, version, play.GameID)
	return game, nil
}

// PlayActivities returns the plays of a game in recording order.
func (s *BadgerStore) PlayActivities(ctx context.Context, id string) (plays []models.PlayActivity, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("play_activities", time.Since(start), err) }()

	if err := ValidateGameID(id); err != nil {
		return nil, err
	}

	plays = []models.PlayActivity{}
	err = s.db.View(func(txn *badger.Txn) error {
		if _, err := loadGame(txn, id); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = playPrefix(id)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var play models.PlayActivity
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &play)
			})
			if err != nil {
				return fmt.Errorf("decode play: %w", err)
			}
			plays = append(plays, play)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plays, nil
}

// Version returns the catalog version counter. An empty catalog is version 0.
func (s *BadgerStore) Version(ctx context.Context) (version uint64, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		version, err = readCounter(txn, metaVersionKey)
		return err
	})
	return version, err
}

func (s *BadgerStore) notify(ctx context.Context, kind ChangeKind, version uint64, ids ...string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyChanged(ctx, ChangeEvent{
		Kind:    kind,
		GameIDs: ids,
		Version: version,
		At:      s.now().UTC(),
	})
}

func loadGame(txn *badger.Txn, id string) (*storedGame, error) {
	item, err := txn.Get(gameKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	var stored storedGame
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	if err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	if stored.Game == nil {
		return nil, fmt.Errorf("decode game %s: empty record", id)
	}
	return &stored, nil
}

// putGame writes game, assigning a new sequence number when it is new.
func putGame(txn *badger.Txn, game *models.Game) (created bool, err error) {
	existing, err := loadGame(txn, game.ID)
	switch {
	case errors.Is(err, ErrGameNotFound):
		created = true
	case err != nil:
		return false, err
	}

	var seq uint64
	if created {
		seq, err = incrementCounter(txn, metaSeqKey)
		if err != nil {
			return false, err
		}
		if err := txn.Set(seqKey(seq), []byte(game.ID)); err != nil {
			return false, fmt.Errorf("set sequence entry: %w", err)
		}
	} else {
		seq = existing.Seq
	}

	if err := setJSON(txn, gameKey(game.ID), storedGame{Seq: seq, Game: game}); err != nil {
		return false, fmt.Errorf("set game: %w", err)
	}
	return created, nil
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return txn.Set(key, data)
}

func bumpVersion(txn *badger.Txn) (uint64, error) {
	return incrementCounter(txn, metaVersionKey)
}

func readCounter(txn *badger.Txn, key string) (uint64, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}

	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("counter %s has %d bytes", key, len(val))
		}
		n = binary.BigEndian.Uint64(val)
		return nil
	})
	return n, err
}

func incrementCounter(txn *badger.Txn, key string) (uint64, error) {
	n, err := readCounter(txn, key)
	if err != nil {
		return 0, err
	}
	n++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	if err := txn.Set([]byte(key), buf); err != nil {
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	return n, nil
}

func collectKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// Compile-time interface check
var _ Store = (*BadgerStore)(nil)

// DefaultGCRatio is the discard ratio passed to badger's value log GC.
const DefaultGCRatio = 0.5

// RunGC runs value log garbage collection until badger reports nothing
// left to rewrite. In-memory databases have no value log and return nil.
func (s *BadgerStore) RunGC(ratio float64) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogOperation("gc", time.Since(start), err) }()

	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultGCRatio
	}

	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}
