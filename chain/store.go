package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 12:20
 */

import "sync"

// Config holds the tunable chain parameters a state store is born with.
type Config struct {
	TxsPerBlock  int
	MiningReward int64
	Difficulty   int
}

// StateStore is the mutable ground truth derived from the chain: the
// UTXO index plus the append-only transaction archive. Reads and writes
// go through its RWMutex so the query facade can observe a consistent
// snapshot without copying the whole store on every call.
type StateStore struct {
	mu sync.RWMutex

	Config     Config
	BlockIndex int64

	// TransactionByHash is an append-only archive; entries are never
	// removed, even on rollback (see Engine.Rollback).
	TransactionByHash map[string]Tx

	// UnspentTxsByUserHash maps an address to the set of (tx_hash,
	// out_hash) pairs it can still spend.
	UnspentTxsByUserHash map[string]map[UTXOKey]struct{}

	// UnspentOutputsAmount mirrors UnspentTxsByUserHash, indexed by
	// out_hash, so a balance query never has to touch the archive.
	UnspentOutputsAmount map[string]map[string]int64
}

// NewStateStore builds an empty store, block index at -1 (before
// genesis), so BlockIndex == len(chain)-1 holds even for an empty chain.
func NewStateStore(cfg Config) *StateStore {
	return &StateStore{
		Config:               cfg,
		BlockIndex:           -1,
		TransactionByHash:    make(map[string]Tx),
		UnspentTxsByUserHash: make(map[string]map[UTXOKey]struct{}),
		UnspentOutputsAmount: make(map[string]map[string]int64),
	}
}

// WithReadLock runs fn while holding the store's read lock, giving a
// caller (typically api.Facade) a consistent view across several reads.
func (s *StateStore) WithReadLock(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// lookupOutput finds the Output a (txHash, outHash) pair refers to by
// consulting the archive. It does not check spent/unspent status.
func (s *StateStore) lookupOutput(txHash, outHash string) (Output, bool) {
	tx, ok := s.TransactionByHash[txHash]
	if !ok {
		return Output{}, false
	}
	for _, out := range tx.Outputs {
		if out.Hash == outHash {
			return out, true
		}
	}
	return Output{}, false
}

// isUnspent reports whether (txHash, outHash) is recorded as unspent
// under address.
func (s *StateStore) isUnspent(address, txHash, outHash string) bool {
	set, ok := s.UnspentTxsByUserHash[address]
	if !ok {
		return false
	}
	_, ok = set[UTXOKey{TxHash: txHash, OutHash: outHash}]
	return ok
}

// markUnspent records out as spendable by its own address.
func (s *StateStore) markUnspent(txHash string, out Output) {
	set, ok := s.UnspentTxsByUserHash[out.Address]
	if !ok {
		set = make(map[UTXOKey]struct{})
		s.UnspentTxsByUserHash[out.Address] = set
	}
	set[UTXOKey{TxHash: txHash, OutHash: out.Hash}] = struct{}{}

	amounts, ok := s.UnspentOutputsAmount[out.Address]
	if !ok {
		amounts = make(map[string]int64)
		s.UnspentOutputsAmount[out.Address] = amounts
	}
	amounts[out.Hash] = out.Amount
}

// markSpent removes out from the unspent maps under address, dropping
// the address's entries once they are empty so a rollback leaves the
// maps exactly as they were before the matching rollover.
func (s *StateStore) markSpent(txHash string, out Output) {
	if set, ok := s.UnspentTxsByUserHash[out.Address]; ok {
		delete(set, UTXOKey{TxHash: txHash, OutHash: out.Hash})
		if len(set) == 0 {
			delete(s.UnspentTxsByUserHash, out.Address)
		}
	}
	if amounts, ok := s.UnspentOutputsAmount[out.Address]; ok {
		delete(amounts, out.Hash)
		if len(amounts) == 0 {
			delete(s.UnspentOutputsAmount, out.Address)
		}
	}
}

// Balance sums the unspent amounts recorded for address.
func (s *StateStore) Balance(address string) int64 {
	var total int64
	for _, amount := range s.UnspentOutputsAmount[address] {
		total += amount
	}
	return total
}

// UnspentEntry is one row of an address's spendable-output listing.
type UnspentEntry struct {
	TxHash      string
	OutputIndex int
	OutHash     string
	Amount      int64
}

// UnspentFor joins the unspent set for address against the archive to
// fill in each entry's output index.
func (s *StateStore) UnspentFor(address string) []UnspentEntry {
	var entries []UnspentEntry
	for key := range s.UnspentTxsByUserHash[address] {
		amount := s.UnspentOutputsAmount[address][key.OutHash]
		tx, ok := s.TransactionByHash[key.TxHash]
		if !ok {
			continue
		}
		for i, out := range tx.Outputs {
			if out.Hash == key.OutHash {
				entries = append(entries, UnspentEntry{
					TxHash:      key.TxHash,
					OutputIndex: i,
					OutHash:     key.OutHash,
					Amount:      amount,
				})
				break
			}
		}
	}
	return entries
}

// Clone returns a deep, independent copy of the store, used by tests and
// by snapshot/restore to avoid aliasing engine-owned maps.
func (s *StateStore) Clone() *StateStore {
	clone := &StateStore{
		Config:               s.Config,
		BlockIndex:           s.BlockIndex,
		TransactionByHash:    make(map[string]Tx, len(s.TransactionByHash)),
		UnspentTxsByUserHash: make(map[string]map[UTXOKey]struct{}, len(s.UnspentTxsByUserHash)),
		UnspentOutputsAmount: make(map[string]map[string]int64, len(s.UnspentOutputsAmount)),
	}
	for hash, tx := range s.TransactionByHash {
		clone.TransactionByHash[hash] = tx
	}
	for address, set := range s.UnspentTxsByUserHash {
		newSet := make(map[UTXOKey]struct{}, len(set))
		for k := range set {
			newSet[k] = struct{}{}
		}
		clone.UnspentTxsByUserHash[address] = newSet
	}
	for address, amounts := range s.UnspentOutputsAmount {
		newAmounts := make(map[string]int64, len(amounts))
		for k, v := range amounts {
			newAmounts[k] = v
		}
		clone.UnspentOutputsAmount[address] = newAmounts
	}
	return clone
}
