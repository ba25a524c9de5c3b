package network

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 17:00
 */

import "github.com/kilimba/utxochain/chain"

/**
 * Peer-to-peer gossip and node discovery are out of scope for this
 * core (the full version/inv/getblocks/getdata wire protocol this
 * package used to carry belongs to the external transport layer).
 * Broadcaster is the one seam the core needs: a place to hand off a
 * newly accepted block or transaction to whatever gossip layer a node
 * process wires in.
 */

// Broadcaster announces locally-accepted blocks and transactions to the
// rest of a network. The core never calls it directly; a node process
// wires it in between the facade and a transport of its choosing.
type Broadcaster interface {
	BroadcastBlock(block chain.Block) error
	BroadcastTx(tx chain.Tx) error
}

// NullBroadcaster discards everything. It is the default for a
// single-node setup, or for tests that don't exercise networking.
type NullBroadcaster struct{}

func (NullBroadcaster) BroadcastBlock(chain.Block) error { return nil }
func (NullBroadcaster) BroadcastTx(chain.Tx) error        { return nil }
