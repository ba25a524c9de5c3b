package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 19:20
 */

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilimba/utxochain/wallet"
)

func testConfig() Config {
	return Config{TxsPerBlock: 4, MiningReward: 25, Difficulty: 1}
}

// archiveAndMarkUnspent puts tx directly into a fresh store the way
// Engine.rollover would, without going through mining — enough setup
// for a verifier test that only cares about a single prior tx.
func archiveAndMarkUnspent(store *StateStore, tx Tx) {
	hash := tx.Hash()
	store.TransactionByHash[hash] = tx
	for _, out := range tx.Outputs {
		store.markUnspent(hash, out)
	}
}

// S1 — Valid coinbase round-trip.
func TestVerifyCoinbaseRoundTrip(t *testing.T) {
	w, err := wallet.Create()
	require.NoError(t, err)

	store := NewStateStore(testConfig())
	tx := NewCoinbaseTx(w.Address(), 25, 1000)

	fee, verr := NewTxVerifier(store).Verify(tx)
	require.NoError(t, verr)
	assert.Equal(t, int64(0), fee)
}

// S2 — Insufficient funds.
func TestVerifyInsufficientFunds(t *testing.T) {
	w, err := wallet.Create()
	require.NoError(t, err)

	store := NewStateStore(testConfig())
	coinbase := NewCoinbaseTx(w.Address(), 25, 1000)
	archiveAndMarkUnspent(store, coinbase)

	in := Input{PrevTxHash: coinbase.Hash(), OutputIndex: 0, Address: w.Address().String(), Index: 0}
	sig, err := w.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	out := Output{Amount: 30, Address: w.Address().String(), Index: 0}
	out.Hash = ComputeOutputHash(out.Amount, out.Address, out.Index, 2000)
	tx := Tx{Inputs: []Input{in}, Outputs: []Output{out}, Timestamp: 2000}

	_, verr := NewTxVerifier(store).Verify(tx)
	assert.ErrorIs(t, verr, ErrInsufficientFunds)
}

// S3 — Wrong signer.
func TestVerifyWrongSigner(t *testing.T) {
	w, err := wallet.Create()
	require.NoError(t, err)
	w2, err := wallet.Create()
	require.NoError(t, err)

	store := NewStateStore(testConfig())
	coinbase := NewCoinbaseTx(w.Address(), 25, 1000)
	archiveAndMarkUnspent(store, coinbase)

	in := Input{PrevTxHash: coinbase.Hash(), OutputIndex: 0, Address: w.Address().String(), Index: 0}
	sig, err := w2.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	out := Output{Amount: 20, Address: w.Address().String(), Index: 0}
	out.Hash = ComputeOutputHash(out.Amount, out.Address, out.Index, 2000)
	tx := Tx{Inputs: []Input{in}, Outputs: []Output{out}, Timestamp: 2000}

	_, verr := NewTxVerifier(store).Verify(tx)
	assert.ErrorIs(t, verr, ErrBadSignature)
}

func TestVerifyDoubleSpend(t *testing.T) {
	w, err := wallet.Create()
	require.NoError(t, err)

	store := NewStateStore(testConfig())
	coinbase := NewCoinbaseTx(w.Address(), 25, 1000)
	archiveAndMarkUnspent(store, coinbase)

	out := coinbase.Outputs[0]
	store.markSpent(coinbase.Hash(), out)

	in := Input{PrevTxHash: coinbase.Hash(), OutputIndex: 0, Address: w.Address().String(), Index: 0}
	sig, err := w.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	spendOut := Output{Amount: 25, Address: w.Address().String(), Index: 0}
	spendOut.Hash = ComputeOutputHash(spendOut.Amount, spendOut.Address, spendOut.Index, 2000)
	tx := Tx{Inputs: []Input{in}, Outputs: []Output{spendOut}, Timestamp: 2000}

	_, verr := NewTxVerifier(store).Verify(tx)
	assert.ErrorIs(t, verr, ErrDoubleSpend)
}

func TestVerifyUnknownPrevTx(t *testing.T) {
	w, err := wallet.Create()
	require.NoError(t, err)

	store := NewStateStore(testConfig())

	in := Input{PrevTxHash: "not-a-real-hash", OutputIndex: 0, Address: w.Address().String(), Index: 0}
	sig, err := w.Sign(in.Commitment())
	require.NoError(t, err)
	in.Signature = sig

	out := Output{Amount: 1, Address: w.Address().String(), Index: 0}
	out.Hash = ComputeOutputHash(out.Amount, out.Address, out.Index, 2000)
	tx := Tx{Inputs: []Input{in}, Outputs: []Output{out}, Timestamp: 2000}

	_, verr := NewTxVerifier(store).Verify(tx)
	assert.ErrorIs(t, verr, ErrUnknownPrevTx)
}
