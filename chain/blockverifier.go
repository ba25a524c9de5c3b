package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 13:10
 */

import "math/big"

// BlockVerifier validates a candidate block: proof-of-work, its
// non-coinbase transactions, and coinbase conservation. Linkage to the
// tip is the engine's job (see Engine.AddBlock), since only the engine
// knows about fork_blocks.
type BlockVerifier struct {
	store *StateStore
}

// NewBlockVerifier builds a verifier bound to store.
func NewBlockVerifier(store *StateStore) *BlockVerifier {
	return &BlockVerifier{store: store}
}

// target returns 2^(256-difficulty), the upper bound a valid block hash
// must not exceed when read as a big-endian integer.
func target(difficulty int) *big.Int {
	t := big.NewInt(1)
	return t.Lsh(t, uint(256-difficulty))
}

// MeetsDifficulty reports whether hashHex, read as a 256-bit integer, is
// at or below the configured difficulty target.
func (v *BlockVerifier) MeetsDifficulty(hashHex string) bool {
	n, ok := new(big.Int).SetString(hashHex, 16)
	if !ok {
		return false
	}
	return n.Cmp(target(v.store.Config.Difficulty)) <= 0
}

// Verify validates block's proof-of-work, its non-coinbase transactions,
// and the coinbase's conservation of value. It does not check linkage
// to a particular tip; callers compare block.Index/PrevHash/Timestamp
// against the tip themselves.
func (v *BlockVerifier) Verify(block Block) error {
	if !v.MeetsDifficulty(block.Hash()) {
		return ErrBadDifficulty
	}

	txVerifier := NewTxVerifier(v.store)
	var totalFees int64
	for _, tx := range block.Txs[1:] {
		fee, err := txVerifier.Verify(tx)
		if err != nil {
			return &BadTxError{TxHash: tx.Hash(), Err: err}
		}
		totalFees += fee
	}

	coinbase := block.Txs[0]
	expectedReward := v.store.Config.MiningReward + totalFees
	if coinbase.totalOut() != expectedReward {
		return ErrBadReward
	}
	return nil
}
