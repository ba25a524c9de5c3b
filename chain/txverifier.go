package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 12:55
 */

import (
	"github.com/kilimba/utxochain/wallet"
)

// TxVerifier validates a candidate transaction against a state store's
// current UTXO view. It never mutates the store.
type TxVerifier struct {
	store *StateStore
}

// NewTxVerifier builds a verifier bound to store.
func NewTxVerifier(store *StateStore) *TxVerifier {
	return &TxVerifier{store: store}
}

// Verify checks tx against the current UTXO state and returns its fee
// (total input minus total output) on success.
func (v *TxVerifier) Verify(tx Tx) (int64, error) {
	var totalIn int64

	for i, in := range tx.Inputs {
		if i == 0 && in.IsCoinbase() {
			totalIn += v.store.Config.MiningReward
			continue
		}

		prevTx, ok := v.store.TransactionByHash[in.PrevTxHash]
		if !ok {
			return 0, ErrUnknownPrevTx
		}
		if in.OutputIndex < 0 || in.OutputIndex >= len(prevTx.Outputs) {
			return 0, ErrUnknownPrevTx
		}
		out := prevTx.Outputs[in.OutputIndex]

		if !v.store.isUnspent(out.Address, in.PrevTxHash, out.Hash) {
			return 0, ErrDoubleSpend
		}

		addr, err := wallet.ParseAddress(out.Address)
		if err != nil {
			return 0, ErrBadSignature
		}
		if !wallet.Verify(in.Commitment(), in.Signature, addr) {
			return 0, ErrBadSignature
		}

		totalIn += out.Amount
	}

	totalOut := tx.totalOut()
	if totalIn < totalOut {
		return 0, ErrInsufficientFunds
	}
	return totalIn - totalOut, nil
}
