package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 13:40
 */

/**
 * Mining is a plain nonce-search loop: for each candidate nonce, compute
 * the block's hash and compare it against the difficulty target. The
 * loop is cooperatively cancellable — it polls shouldStop once per
 * nonce rather than relying on a signal or a cancellation token.
 */

// MaxNonce bounds the nonce search; a block that can't be mined below
// this many attempts is abandoned.
const MaxNonce = 1 << 32

// Mine searches for a nonce that makes block's hash satisfy the
// configured difficulty target, polling shouldStop once per attempt.
// On success it returns the mined block (with Nonce set) and true.
func (v *BlockVerifier) Mine(block Block, shouldStop func() bool) (Block, bool) {
	for nonce := int64(0); nonce < MaxNonce; nonce++ {
		if shouldStop != nil && shouldStop() {
			return Block{}, false
		}
		block.Nonce = uint32(nonce)
		if v.MeetsDifficulty(block.Hash()) {
			return block, true
		}
	}
	return Block{}, false
}
