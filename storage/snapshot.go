package storage

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 15:10
 */

import (
	"github.com/kilimba/utxochain/chain"
)

// Snapshot is the opaque blob the core hands its storage collaborator:
// everything needed to reconstruct a StateStore at a given BlockIndex.
// Its encoding is a private contract between the core and whichever
// SnapshotStore implementation is in use.
type Snapshot struct {
	Config               chain.Config
	BlockIndex           int64
	TransactionByHash    map[string]chain.Tx
	UnspentTxsByUserHash map[string]map[chain.UTXOKey]struct{}
	UnspentOutputsAmount map[string]map[string]int64
}

// SnapshotStore persists and restores opaque Snapshot blobs keyed by
// block index. The core never inspects a snapshot's bytes directly; it
// only ever round-trips a Snapshot value through Save/Load.
type SnapshotStore interface {
	Save(snapshot Snapshot) error
	Load(blockIndex int64) (Snapshot, error)
	Close() error
}

// FromStateStore builds a Snapshot from a chain.StateStore, deep-copying
// its maps so later mutation of the store can't leak into the snapshot.
func FromStateStore(s *chain.StateStore) Snapshot {
	clone := s.Clone()
	return Snapshot{
		Config:               clone.Config,
		BlockIndex:           clone.BlockIndex,
		TransactionByHash:    clone.TransactionByHash,
		UnspentTxsByUserHash: clone.UnspentTxsByUserHash,
		UnspentOutputsAmount: clone.UnspentOutputsAmount,
	}
}

// ToStateStore rebuilds a *chain.StateStore from a previously saved
// Snapshot.
func ToStateStore(snap Snapshot) *chain.StateStore {
	store := chain.NewStateStore(snap.Config)
	store.BlockIndex = snap.BlockIndex
	store.TransactionByHash = snap.TransactionByHash
	store.UnspentTxsByUserHash = snap.UnspentTxsByUserHash
	store.UnspentOutputsAmount = snap.UnspentOutputsAmount
	return store
}
