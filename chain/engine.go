package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 14:05
 */

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/kilimba/utxochain/wallet"
)

// mempoolEntry pairs a tx's fee with its hash, the ordering key
// force_block sorts by.
type mempoolEntry struct {
	Fee    int64
	TxHash string
}

// Engine owns the ordered chain, the mempool, and the set of sibling
// candidates of the current tip. All mutating operations are serialized
// behind a single mutex — this core is specified single-writer.
type Engine struct {
	mu sync.Mutex

	store  *StateStore
	Wallet *wallet.Wallet
	log    *log.Logger

	Chain                    []Block
	unconfirmedTransactions  []mempoolEntry
	currentBlockTransactions []Tx
	forkBlocks               map[string]Block
}

// NewEngine builds an engine bound to store and to the wallet the
// coinbase of every block it mines will pay.
func NewEngine(store *StateStore, w *wallet.Wallet, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.Writer(), "engine: ", log.LstdFlags)
	}
	return &Engine{
		store:      store,
		Wallet:     w,
		log:        logger,
		forkBlocks: make(map[string]Block),
	}
}

// Store exposes the engine's state store for read-only callers (the
// query facade takes its lock before reading).
func (e *Engine) Store() *StateStore {
	return e.store
}

// Head returns the current tip, or false if the chain is empty.
func (e *Engine) Head() (Block, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.head()
}

func (e *Engine) head() (Block, bool) {
	if len(e.Chain) == 0 {
		return Block{}, false
	}
	return e.Chain[len(e.Chain)-1], true
}

// ChainSlice returns a value-copy slice of blocks in [from, from+limit),
// clamped to the chain's actual length, safe for a caller to keep and
// mutate without synchronizing with the engine.
func (e *Engine) ChainSlice(from, limit int) []Block {
	e.mu.Lock()
	defer e.mu.Unlock()

	if from < 0 {
		from = 0
	}
	if from > len(e.Chain) {
		from = len(e.Chain)
	}
	end := from + limit
	if end > len(e.Chain) {
		end = len(e.Chain)
	}

	out := make([]Block, 0, end-from)
	for _, b := range e.Chain[from:end] {
		out = append(out, b.Clone())
	}
	return out
}

// ForkBlocks returns a value-copy snapshot of the currently parked
// sibling candidates of the tip.
func (e *Engine) ForkBlocks() []Block {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Block, 0, len(e.forkBlocks))
	for _, b := range e.forkBlocks {
		out = append(out, b.Clone())
	}
	return out
}

// ChainLen reports how many blocks are currently in the chain.
func (e *Engine) ChainLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Chain)
}

// AddTx admits tx into the mempool if it is not already archived and
// passes tx verification against current state. It reports whether the
// transaction was admitted.
func (e *Engine) AddTx(tx Tx) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	hash := tx.Hash()
	if _, exists := e.store.TransactionByHash[hash]; exists {
		e.log.Printf("drop duplicate tx %s", hash)
		return false
	}

	fee, err := NewTxVerifier(e.store).Verify(tx)
	if err != nil {
		e.log.Printf("reject tx %s: %v", hash, err)
		return false
	}

	// Archived before mining so later mempool transactions in the same
	// window can reference it as a known prev tx: spends of a not-yet-
	// mined parent are accepted, same as any other archived tx.
	e.store.TransactionByHash[hash] = tx
	e.unconfirmedTransactions = append(e.unconfirmedTransactions, mempoolEntry{Fee: fee, TxHash: hash})
	return true
}

// AddBlock attempts to link block onto the current chain, applying the
// block-acceptance state machine and, when the parent does not match
// the tip, the narrow two-level fork resolution. It reports whether the
// chain strictly advanced.
func (e *Engine) AddBlock(block Block) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addBlock(block)
}

func (e *Engine) addBlock(block Block) bool {
	head, hasHead := e.head()

	if hasHead && block.Hash() == head.Hash() {
		e.log.Printf("drop duplicate block %s", block.Hash())
		return false
	}

	if err := NewBlockVerifier(e.store).Verify(block); err != nil {
		e.log.Printf("reject block %s: %v", block.Hash(), err)
		return false
	}

	if linkErr := e.checkLinkage(block, head, hasHead); linkErr != nil {
		// Any linkage failure (wrong index, wrong parent, or from the
		// past) routes into fork resolution: a genuine sibling of the
		// tip shares the tip's index, so it fails the index check
		// before ever reaching the parent-hash check. Which of the
		// three reasons fired does not change how fork_blocks is
		// examined below — only the prev_hash comparison does.
		var outOfChain *BlockOutOfChainError
		if errors.As(linkErr, &outOfChain) {
			return e.handleFork(block, head)
		}
		e.log.Printf("reject block %s: %v", block.Hash(), linkErr)
		return false
	}

	e.rollover(block)
	e.forkBlocks = make(map[string]Block)
	return true
}

// checkLinkage compares block against the tip, returning nil if it
// extends the tip directly.
func (e *Engine) checkLinkage(block Block, head Block, hasHead bool) error {
	if !hasHead {
		return nil
	}
	if head.Index >= block.Index {
		return &BlockOutOfChainError{Reason: WrongIndex}
	}
	if head.Hash() != block.PrevHash {
		return &BlockOutOfChainError{Reason: WrongParent}
	}
	if head.Timestamp > block.Timestamp {
		return &BlockOutOfChainError{Reason: FromPast}
	}
	return nil
}

// handleFork implements the narrow two-level split-brain resolution: a
// sibling of the tip is parked, a child of a known sibling triggers a
// reorganization, anything deeper is rejected outright.
func (e *Engine) handleFork(block Block, head Block) bool {
	if block.PrevHash == head.PrevHash {
		e.forkBlocks[block.Hash()] = block
		e.log.Printf("parked sibling block %s", block.Hash())
		return false
	}

	if sibling, ok := e.findForkParent(block.PrevHash); ok {
		e.rollback()
		e.rollover(sibling)
		e.rollover(block)
		e.forkBlocks = make(map[string]Block)
		e.log.Printf("reorganized onto %s via sibling %s", block.Hash(), sibling.Hash())
		return true
	}

	e.log.Printf("reject block %s: %v", block.Hash(), &BlockOutOfChainError{Reason: Unresolved})
	return false
}

func (e *Engine) findForkParent(hash string) (Block, bool) {
	b, ok := e.forkBlocks[hash]
	return b, ok
}

// Rollover applies block to the state store, exposed for callers (e.g.
// a restore path replaying a persisted chain) that already know block
// is valid and simply want it applied forward.
func (e *Engine) Rollover(block Block) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover(block)
}

func (e *Engine) rollover(block Block) {
	e.unconfirmedTransactions = removeMined(e.unconfirmedTransactions, e.currentBlockTransactions)
	e.currentBlockTransactions = nil

	e.store.BlockIndex = block.Index
	e.Chain = append(e.Chain, block)

	for _, tx := range block.Txs {
		hash := tx.Hash()
		e.store.TransactionByHash[hash] = tx

		for _, out := range tx.Outputs {
			e.store.markUnspent(hash, out)
		}
		for _, in := range tx.Inputs {
			if in.IsCoinbase() {
				continue
			}
			if out, ok := e.store.lookupOutput(in.PrevTxHash, e.outHashForInput(in)); ok {
				e.store.markSpent(in.PrevTxHash, out)
			}
		}
	}
}

// outHashForInput resolves the out_hash an input spends by re-reading
// the referenced transaction's output at OutputIndex.
func (e *Engine) outHashForInput(in Input) string {
	prevTx, ok := e.store.TransactionByHash[in.PrevTxHash]
	if !ok || in.OutputIndex < 0 || in.OutputIndex >= len(prevTx.Outputs) {
		return ""
	}
	return prevTx.Outputs[in.OutputIndex].Hash
}

// Rollback undoes the current tip, returning its transactions to the
// mempool with freshly recomputed fees. It is the exact inverse of
// Rollover on the unspent maps; the archive is never shrunk.
func (e *Engine) Rollback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollback()
}

func (e *Engine) rollback() {
	if len(e.Chain) == 0 {
		return
	}
	block := e.Chain[len(e.Chain)-1]
	e.Chain = e.Chain[:len(e.Chain)-1]
	if e.store.BlockIndex > -1 {
		e.store.BlockIndex--
	}

	for _, tx := range block.Txs {
		hash := tx.Hash()
		var totalIn, totalOut int64

		for _, out := range tx.Outputs {
			totalOut += out.Amount
			e.store.markSpent(hash, out)
		}
		for _, in := range tx.Inputs {
			if in.IsCoinbase() {
				continue
			}
			prevTx, ok := e.store.TransactionByHash[in.PrevTxHash]
			if !ok || in.OutputIndex < 0 || in.OutputIndex >= len(prevTx.Outputs) {
				continue
			}
			out := prevTx.Outputs[in.OutputIndex]
			totalIn += out.Amount
			e.store.markUnspent(in.PrevTxHash, out)
		}

		e.unconfirmedTransactions = append(e.unconfirmedTransactions, mempoolEntry{
			Fee:    totalIn - totalOut,
			TxHash: hash,
		})
	}
}

// Mine assembles a candidate block from up to Config.TxsPerBlock mempool
// entries (highest fee first), pays the reward plus fees to the
// engine's wallet, searches for a valid nonce, and on success applies
// the block forward exactly as AddBlock would.
func (e *Engine) Mine(shouldStop func() bool) bool {
	e.mu.Lock()
	block, ok := e.buildCandidate()
	e.mu.Unlock()
	if !ok {
		return false
	}

	// The nonce search itself runs unlocked so AddTx/AddBlock calls from
	// other callers are not blocked for the duration of mining; only the
	// resulting state transition is serialized against the engine.
	mined, ok := NewBlockVerifier(e.store).Mine(block, shouldStop)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addBlock(mined)
}

func (e *Engine) buildCandidate() (Block, bool) {
	if e.Wallet == nil {
		e.log.Printf("cannot mine: %v", ErrNoWallet)
		return Block{}, false
	}

	entries := append([]mempoolEntry(nil), e.unconfirmedTransactions...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Fee != entries[j].Fee {
			return entries[i].Fee > entries[j].Fee
		}
		return entries[i].TxHash < entries[j].TxHash
	})

	limit := e.store.Config.TxsPerBlock
	if limit > len(entries) {
		limit = len(entries)
	}
	selected := entries[:limit]

	var totalFees int64
	txs := make([]Tx, 0, limit+1)
	for _, entry := range selected {
		tx, ok := e.store.TransactionByHash[entry.TxHash]
		if !ok {
			continue
		}
		totalFees += entry.Fee
		txs = append(txs, tx)
	}
	e.currentBlockTransactions = txs

	timestamp := time.Now().Unix()
	// The coinbase is salted with a nanosecond timestamp so two blocks
	// mined by the same wallet within one second still get distinct
	// coinbase transactions and outputs.
	coinbase := NewCoinbaseTx(e.Wallet.Address(), e.store.Config.MiningReward+totalFees, time.Now().UnixNano())

	head, hasHead := e.head()
	index := int64(0)
	prevHash := ""
	if hasHead {
		index = head.Index + 1
		prevHash = head.Hash()
	}

	return Block{
		Index:     index,
		Timestamp: timestamp,
		PrevHash:  prevHash,
		Txs:       append([]Tx{coinbase}, txs...),
	}, true
}

// ForceBlock is the public entry point for a miner triggering one round
// of block assembly and mining on demand.
func (e *Engine) ForceBlock(shouldStop func() bool) bool {
	return e.Mine(shouldStop)
}

func removeMined(pool []mempoolEntry, mined []Tx) []mempoolEntry {
	if len(mined) == 0 {
		return pool
	}
	minedHashes := make(map[string]struct{}, len(mined))
	for _, tx := range mined {
		minedHashes[tx.Hash()] = struct{}{}
	}
	kept := pool[:0]
	for _, entry := range pool {
		if _, ok := minedHashes[entry.TxHash]; !ok {
			kept = append(kept, entry)
		}
	}
	return kept
}

// ErrNoWallet is logged when the engine is asked to mine but was built
// without a wallet to pay the coinbase to.
var ErrNoWallet = fmt.Errorf("chain: engine has no bound wallet")
