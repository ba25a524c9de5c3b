package api

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 16:10
 */

import (
	"encoding/json"
	"fmt"

	"github.com/kilimba/utxochain/chain"
)

// Facade is the read-mostly wrapper an RPC/CLI layer sits behind: it
// projects the engine's state without ever exposing engine-owned
// pointers, and forwards mutations with wire (de)serialization at the
// boundary. It holds no lock of its own — GetBalance and GetUnspent
// take the engine's store's read lock for just the duration of that
// read, and GetChain and GetHead go through the engine's own mutex.
type Facade struct {
	engine *chain.Engine
}

// NewFacade wraps engine.
func NewFacade(engine *chain.Engine) *Facade {
	return &Facade{engine: engine}
}

// UnspentView is the wire shape of one of a user's spendable outputs.
type UnspentView struct {
	Tx          string `json:"tx"`
	OutputIndex int    `json:"output_index"`
	OutHash     string `json:"out_hash"`
	Amount      int64  `json:"amount"`
}

// GetBalance sums the unspent amount recorded for address.
func (f *Facade) GetBalance(address string) int64 {
	var balance int64
	f.engine.Store().WithReadLock(func() {
		balance = f.engine.Store().Balance(address)
	})
	return balance
}

// GetUnspent joins the unspent set for address against the archive to
// fill in output indices.
func (f *Facade) GetUnspent(address string) []UnspentView {
	var views []UnspentView
	f.engine.Store().WithReadLock(func() {
		for _, entry := range f.engine.Store().UnspentFor(address) {
			views = append(views, UnspentView{
				Tx:          entry.TxHash,
				OutputIndex: entry.OutputIndex,
				OutHash:     entry.OutHash,
				Amount:      entry.Amount,
			})
		}
	})
	return views
}

// GetChain returns up to limit blocks starting at fromBlock, as value
// copies a caller can mutate freely. If the slice would be shorter than
// limit, currently parked fork candidates are appended after it.
func (f *Facade) GetChain(fromBlock int, limit int) []chain.Block {
	if limit <= 0 {
		limit = 20
	}
	blocks := f.engine.ChainSlice(fromBlock, limit)
	if len(blocks) < limit {
		blocks = append(blocks, f.engine.ForkBlocks()...)
	}
	return blocks
}

// GetHead returns the current tip as a value copy, or false if the
// chain is empty.
func (f *Facade) GetHead() (chain.Block, bool) {
	head, ok := f.engine.Head()
	if !ok {
		return chain.Block{}, false
	}
	return head.Clone(), true
}

// AddBlock deserializes wireBlock and hands it to the engine.
func (f *Facade) AddBlock(wireBlock []byte) (bool, error) {
	var block chain.Block
	if err := json.Unmarshal(wireBlock, &block); err != nil {
		return false, fmt.Errorf("api: decode block: %w", err)
	}
	return f.engine.AddBlock(block), nil
}

// AddTx deserializes wireTx and hands it to the engine's mempool.
func (f *Facade) AddTx(wireTx []byte) (bool, error) {
	var tx chain.Tx
	if err := json.Unmarshal(wireTx, &tx); err != nil {
		return false, fmt.Errorf("api: decode tx: %w", err)
	}
	return f.engine.AddTx(tx), nil
}

// Mine triggers one round of block assembly and mining.
func (f *Facade) Mine(shouldStop func() bool) bool {
	return f.engine.Mine(shouldStop)
}
