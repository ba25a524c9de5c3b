package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 19:50
 */

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilimba/utxochain/wallet"
)

func silentLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestEngine(t *testing.T, miner *wallet.Wallet) (*Engine, *StateStore) {
	t.Helper()
	store := NewStateStore(Config{TxsPerBlock: 4, MiningReward: 25, Difficulty: 1})
	return NewEngine(store, miner, silentLogger()), store
}

// spendCoinbase builds a signed transaction spending prevBlock's
// coinbase output, paying amountEach to every recipient; whatever is
// left of the coinbase amount becomes the fee.
func spendCoinbase(t *testing.T, from *wallet.Wallet, prevBlock Block, recipients []wallet.Address, amountEach int64, timestamp int64) Tx {
	t.Helper()
	coinbase := prevBlock.Txs[0]

	in := Input{PrevTxHash: coinbase.Hash(), OutputIndex: 0, Address: from.Address().String(), Index: 0}
	sig, err := from.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	outs := make([]Output, len(recipients))
	for i, addr := range recipients {
		o := Output{Amount: amountEach, Address: addr.String(), Index: i}
		o.Hash = ComputeOutputHash(o.Amount, o.Address, o.Index, timestamp)
		outs[i] = o
	}
	return Tx{Inputs: []Input{in}, Outputs: outs, Timestamp: timestamp}
}

func mapsEqual(t *testing.T, a, b *StateStore) {
	t.Helper()
	assert.Equal(t, len(a.UnspentTxsByUserHash), len(b.UnspentTxsByUserHash))
	for addr, set := range a.UnspentTxsByUserHash {
		other, ok := b.UnspentTxsByUserHash[addr]
		require.True(t, ok, "address %s missing", addr)
		assert.Equal(t, set, other)
	}
	assert.Equal(t, a.UnspentOutputsAmount, b.UnspentOutputsAmount)
}

// S4 — Rollback exactness.
func TestRollbackExactness(t *testing.T) {
	miner, err := wallet.Create()
	require.NoError(t, err)
	engine, store := newTestEngine(t, miner)

	require.True(t, engine.Mine(nil)) // genesis, block_index 0

	var snapshot *StateStore
	var coinbaseHashes []string
	prevHead, ok := engine.Head()
	require.True(t, ok)
	coinbaseHashes = append(coinbaseHashes, prevHead.Txs[0].Hash())

	for i := 0; i < 6; i++ {
		head, ok := engine.Head()
		require.True(t, ok)

		r1, err := wallet.Create()
		require.NoError(t, err)
		r2, err := wallet.Create()
		require.NoError(t, err)

		tx := spendCoinbase(t, miner, head, []wallet.Address{r1.Address(), r2.Address()}, 2, int64(3000+i))
		require.True(t, engine.AddTx(tx))
		require.True(t, engine.Mine(nil))

		newHead, ok := engine.Head()
		require.True(t, ok)
		coinbaseHashes = append(coinbaseHashes, newHead.Txs[0].Hash())

		if i == 0 {
			snapshot = store.Clone()
		}
	}

	require.Equal(t, int64(6), store.BlockIndex)

	for i := 0; i < 5; i++ {
		engine.Rollback()
	}

	assert.Equal(t, int64(1), store.BlockIndex)
	mapsEqual(t, snapshot, store)

	for _, hash := range coinbaseHashes {
		_, ok := store.TransactionByHash[hash]
		assert.True(t, ok, "archive missing coinbase %s", hash)
	}
}

// S5 — Split-brain resolution.
func TestSplitBrainResolution(t *testing.T) {
	minerA, err := wallet.Create()
	require.NoError(t, err)
	minerB, err := wallet.Create()
	require.NoError(t, err)

	engineA, storeA := newTestEngine(t, minerA)
	engineB, storeB := newTestEngine(t, minerB)

	require.True(t, engineA.Mine(nil))
	genesis, ok := engineA.Head()
	require.True(t, ok)
	require.True(t, engineB.AddBlock(genesis))

	require.True(t, engineA.Mine(nil)) // block X
	blockX, ok := engineA.Head()
	require.True(t, ok)

	require.True(t, engineB.Mine(nil)) // block Y, sibling of X
	blockY, ok := engineB.Head()
	require.True(t, ok)

	accepted := engineA.AddBlock(blockY)
	assert.False(t, accepted)
	fork := engineA.ForkBlocks()
	require.Len(t, fork, 1)
	assert.Equal(t, blockY.Hash(), fork[0].Hash())

	require.True(t, engineB.Mine(nil)) // block Z on top of Y
	blockZ, ok := engineB.Head()
	require.True(t, ok)

	accepted = engineA.AddBlock(blockZ)
	assert.True(t, accepted)

	chainA := engineA.ChainSlice(0, engineA.ChainLen())
	require.Len(t, chainA, 3)
	assert.Equal(t, genesis.Hash(), chainA[0].Hash())
	assert.Equal(t, blockY.Hash(), chainA[1].Hash())
	assert.Equal(t, blockZ.Hash(), chainA[2].Hash())

	xCoinbaseOutHash := blockX.Txs[0].Outputs[0].Hash
	for _, amounts := range storeA.UnspentOutputsAmount {
		for outHash := range amounts {
			assert.NotEqual(t, xCoinbaseOutHash, outHash)
		}
	}
	_ = storeB
}

// S6 — Mempool ordering.
func TestMempoolOrdering(t *testing.T) {
	miner, err := wallet.Create()
	require.NoError(t, err)
	engine, _ := newTestEngine(t, miner)
	engine.Store().Config.TxsPerBlock = 2

	// Three blocks of empty-mempool coinbases give three independent
	// unspent outputs to fund three non-competing spends.
	require.True(t, engine.Mine(nil))
	block1, ok := engine.Head()
	require.True(t, ok)
	require.True(t, engine.Mine(nil))
	block2, ok := engine.Head()
	require.True(t, ok)
	require.True(t, engine.Mine(nil))
	block3, ok := engine.Head()
	require.True(t, ok)

	fee1, fee3, fee5 := int64(1), int64(3), int64(5)
	txFee1 := feeOnlyTx(t, miner, block1, fee1, 4001)
	txFee3 := feeOnlyTx(t, miner, block2, fee3, 4002)
	txFee5 := feeOnlyTx(t, miner, block3, fee5, 4003)

	require.True(t, engine.AddTx(txFee1))
	require.True(t, engine.AddTx(txFee3))
	require.True(t, engine.AddTx(txFee5))

	require.True(t, engine.Mine(nil))
	head, ok := engine.Head()
	require.True(t, ok)

	require.Len(t, head.Txs, 3) // coinbase + 2 selected
	hashes := map[string]bool{head.Txs[1].Hash(): true, head.Txs[2].Hash(): true}
	assert.True(t, hashes[txFee5.Hash()])
	assert.True(t, hashes[txFee3.Hash()])
	assert.False(t, hashes[txFee1.Hash()])

	assert.Equal(t, int64(25+5+3), head.Txs[0].Outputs[0].Amount)
}

// feeOnlyTx builds a tx spending source's coinbase output down to a
// single output that leaves exactly fee behind.
func feeOnlyTx(t *testing.T, from *wallet.Wallet, source Block, fee int64, timestamp int64) Tx {
	t.Helper()
	coinbase := source.Txs[0]
	amount := coinbase.Outputs[0].Amount - fee

	in := Input{PrevTxHash: coinbase.Hash(), OutputIndex: 0, Address: from.Address().String(), Index: 0}
	sig, err := from.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	out := Output{Amount: amount, Address: from.Address().String(), Index: 0}
	out.Hash = ComputeOutputHash(out.Amount, out.Address, out.Index, timestamp)
	return Tx{Inputs: []Input{in}, Outputs: []Output{out}, Timestamp: timestamp}
}
