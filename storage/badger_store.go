package storage

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 15:35
 */

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// snapshotPrefix namespaces snapshot keys inside the shared Badger handle.
const snapshotPrefix = "snapshot-"

// latestKey tracks the block index of the most recently saved snapshot,
// so a restart can resume without already knowing which index is newest.
var latestKey = []byte("snapshot-latest")

// BadgerSnapshotStore is the default local SnapshotStore backend: one
// gob-encoded blob per block index, stored under a Badger handle opened
// with a lock-retry convention.
type BadgerSnapshotStore struct {
	db *badger.DB
}

// OpenBadgerSnapshotStore opens (or creates) a Badger database at path,
// retrying once past a stale LOCK file.
func OpenBadgerSnapshotStore(path string) (*BadgerSnapshotStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := openDB(path, opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger db: %w", err)
	}
	return &BadgerSnapshotStore{db: db}, nil
}

// openDB opens dir, retrying once after clearing a stale LOCK file left
// behind by an unclean shutdown.
func openDB(dir string, opts badger.Options) (*badger.DB, error) {
	db, err := badger.Open(opts)
	if err != nil {
		if !strings.Contains(err.Error(), "LOCK") {
			return nil, err
		}
		if lockErr := os.Remove(dir + "/LOCK"); lockErr != nil {
			return nil, fmt.Errorf("unable to remove stale lock: %w", lockErr)
		}
		retried, retryErr := badger.Open(opts)
		if retryErr != nil {
			return nil, retryErr
		}
		log.Println("storage: recovered from a stale Badger lock")
		return retried, nil
	}
	return db, nil
}

// Save encodes snapshot with gob and writes it under its BlockIndex key.
func (s *BadgerSnapshotStore) Save(snapshot Snapshot) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	key := snapshotKey(snapshot.BlockIndex)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, buf.Bytes()); err != nil {
			return err
		}
		return txn.Set(latestKey, []byte(strconv.FormatInt(snapshot.BlockIndex, 10)))
	})
}

// Latest loads the most recently saved snapshot, or ok=false if none has
// been saved yet, so a caller can resume without already knowing which
// block index was saved last.
func (s *BadgerSnapshotStore) Latest() (snapshot Snapshot, ok bool, err error) {
	var blockIndex int64
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, parseErr := strconv.ParseInt(string(val), 10, 64)
			if parseErr != nil {
				return parseErr
			}
			blockIndex = parsed
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("storage: read latest snapshot pointer: %w", err)
	}
	snapshot, err = s.Load(blockIndex)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snapshot, true, nil
}

// Load decodes the snapshot stored under blockIndex.
func (s *BadgerSnapshotStore) Load(blockIndex int64) (Snapshot, error) {
	var snapshot Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(blockIndex))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&snapshot)
		})
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("storage: load snapshot %d: %w", blockIndex, err)
	}
	return snapshot, nil
}

// Close releases the underlying Badger handle.
func (s *BadgerSnapshotStore) Close() error {
	return s.db.Close()
}

func snapshotKey(blockIndex int64) []byte {
	return []byte(snapshotPrefix + strconv.FormatInt(blockIndex, 10))
}
