package chain

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 11:20
 */

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/kilimba/utxochain/wallet"
)

// CoinbasePrevTxHash is the sentinel prev_tx_hash value marking an input
// as the block reward rather than a spend of a prior output.
const CoinbasePrevTxHash = "COINBASE"

// Input is a claim on a prior output, or the coinbase sentinel at
// position 0 of a block's first transaction.
type Input struct {
	PrevTxHash  string `json:"prev_tx_hash"`
	OutputIndex int    `json:"output_index"`
	Address     string `json:"address"`
	Index       int    `json:"index"`
	Signature   string `json:"signature"`
}

// Commitment is the exact byte sequence an input's signature covers.
func (in Input) Commitment() []byte {
	return []byte(in.PrevTxHash + strconv.Itoa(in.OutputIndex) + in.Address + strconv.Itoa(in.Index))
}

// IsCoinbase reports whether this input is the block-reward sentinel.
func (in Input) IsCoinbase() bool {
	return in.PrevTxHash == CoinbasePrevTxHash
}

// Output is a spendable claim created by a transaction.
type Output struct {
	Amount  int64  `json:"amount"`
	Address string `json:"address"`
	Index   int    `json:"index"`
	Hash    string `json:"hash"`
}

// outputWire mirrors Output's wire shape but additionally accepts the
// an older client's "input_hash" key as an alias for "hash", since
// downstream input records referenced an output's hash under that name.
type outputWire struct {
	Amount    int64  `json:"amount"`
	Address   string `json:"address"`
	Index     int    `json:"index"`
	Hash      string `json:"hash,omitempty"`
	InputHash string `json:"input_hash,omitempty"`
}

// MarshalJSON emits both "hash" and "input_hash" so either kind of reader
// finds the field it expects.
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(outputWire{
		Amount:    o.Amount,
		Address:   o.Address,
		Index:     o.Index,
		Hash:      o.Hash,
		InputHash: o.Hash,
	})
}

// UnmarshalJSON accepts "hash" if present, falling back to "input_hash".
func (o *Output) UnmarshalJSON(data []byte) error {
	var w outputWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.Amount = w.Amount
	o.Address = w.Address
	o.Index = w.Index
	if w.Hash != "" {
		o.Hash = w.Hash
	} else {
		o.Hash = w.InputHash
	}
	return nil
}

// ComputeOutputHash derives the content hash of an output given the
// per-transaction salt (conventionally the parent tx's timestamp) that
// keeps otherwise-identical outputs from colliding.
func ComputeOutputHash(amount int64, address string, index int, salt int64) string {
	payload := strconv.FormatInt(amount, 10) + address + strconv.Itoa(index) + strconv.FormatInt(salt, 10)
	return sha256Hex([]byte(payload))
}

// Tx is a transaction: a set of inputs spent and outputs created.
type Tx struct {
	Inputs    []Input  `json:"inputs"`
	Outputs   []Output `json:"outputs"`
	Timestamp int64    `json:"timestamp"`
}

// Hash returns this transaction's content hash, computed fresh every
// call rather than cached, since Tx is a plain value type passed by copy.
func (tx Tx) Hash() string {
	var commitments []byte
	for _, in := range tx.Inputs {
		commitments = append(commitments, in.Commitment()...)
	}
	var outHashes []byte
	for _, out := range tx.Outputs {
		outHashes = append(outHashes, []byte(out.Hash)...)
	}
	payload := append(commitments, outHashes...)
	payload = append(payload, []byte(strconv.FormatInt(tx.Timestamp, 10))...)
	return sha256Hex(payload)
}

// IsCoinbase reports whether this transaction is a block's reward
// transaction: a single coinbase input at position 0.
func (tx Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].IsCoinbase()
}

// totalOut sums this transaction's output amounts.
func (tx Tx) totalOut() int64 {
	var total int64
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	return total
}

// NewCoinbaseTx builds the reward transaction paid to address: a single
// sentinel input and a single output of amount, signed by no one (the
// coinbase input carries no meaningful signature).
func NewCoinbaseTx(address wallet.Address, amount int64, timestamp int64) Tx {
	in := Input{PrevTxHash: CoinbasePrevTxHash, OutputIndex: 0, Address: address.String(), Index: 0}
	out := Output{Amount: amount, Address: address.String(), Index: 0}
	out.Hash = ComputeOutputHash(out.Amount, out.Address, out.Index, timestamp)
	return Tx{Inputs: []Input{in}, Outputs: []Output{out}, Timestamp: timestamp}
}

// Block is a mined unit of the chain: an index, a proof-of-work nonce, a
// timestamp, a link to its parent, and the transactions it contains.
// Convention: Txs[0] is always the coinbase.
type Block struct {
	Index     int64  `json:"index"`
	Nonce     uint32 `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Txs       []Tx   `json:"txs"`
}

// Hash returns this block's content hash over index, nonce, timestamp,
// prev_hash and the concatenation of its transaction hashes.
func (b Block) Hash() string {
	payload := strconv.FormatInt(b.Index, 10) +
		strconv.FormatUint(uint64(b.Nonce), 10) +
		strconv.FormatInt(b.Timestamp, 10) +
		b.PrevHash
	for _, tx := range b.Txs {
		payload += tx.Hash()
	}
	return sha256Hex([]byte(payload))
}

// Clone returns a deep copy safe for a caller to mutate without
// disturbing engine-owned state.
func (b Block) Clone() Block {
	out := b
	out.Txs = make([]Tx, len(b.Txs))
	for i, tx := range b.Txs {
		out.Txs[i] = tx
		out.Txs[i].Inputs = append([]Input(nil), tx.Inputs...)
		out.Txs[i].Outputs = append([]Output(nil), tx.Outputs...)
	}
	return out
}

// UTXOKey identifies a single unspent output by the hash of the
// transaction that created it and the output's own content hash.
type UTXOKey struct {
	TxHash  string
	OutHash string
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
