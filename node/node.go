package node

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 17:20
 */

import (
	"log"
	"syscall"
	"time"

	death "github.com/vrecan/death/v3"

	"github.com/kilimba/utxochain/chain"
	"github.com/kilimba/utxochain/network"
	"github.com/kilimba/utxochain/storage"
)

// Node owns a chain engine's process lifecycle: a dedicated mining
// goroutine and the graceful shutdown of that goroutine plus the
// engine's storage handle on SIGINT/SIGTERM.
type Node struct {
	Engine      *chain.Engine
	Store       storage.SnapshotStore
	Broadcaster network.Broadcaster
	Logger      *log.Logger

	stop chan struct{}
}

// New builds a Node around engine, persisting snapshots to store and
// announcing accepted work via broadcaster (network.NullBroadcaster{}
// is fine for a single, unconnected node).
func New(engine *chain.Engine, store storage.SnapshotStore, broadcaster network.Broadcaster, logger *log.Logger) *Node {
	if logger == nil {
		logger = log.New(log.Writer(), "node: ", log.LstdFlags)
	}
	if broadcaster == nil {
		broadcaster = network.NullBroadcaster{}
	}
	return &Node{
		Engine:      engine,
		Store:       store,
		Broadcaster: broadcaster,
		Logger:      logger,
		stop:        make(chan struct{}),
	}
}

// Run starts the mining loop on its own goroutine and blocks until
// SIGINT/SIGTERM, then waits for the in-flight mining attempt to
// observe the stop signal before returning.
func (n *Node) Run() {
	done := make(chan struct{})
	go n.mineLoop(done)

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM)
	d.WaitForDeathWithFunc(func() {
		n.Logger.Println("shutting down, waiting for mining to stop")
		n.Stop()
		<-done
		if n.Store != nil {
			if err := n.Store.Close(); err != nil {
				n.Logger.Printf("error closing storage: %v", err)
			}
		}
	})
}

func (n *Node) mineLoop(done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-n.stop:
			return
		default:
		}

		mined := n.Engine.Mine(n.shouldStop)
		if mined {
			if head, ok := n.Engine.Head(); ok {
				if err := n.Broadcaster.BroadcastBlock(head); err != nil {
					n.Logger.Printf("broadcast failed: %v", err)
				}
			}
			if n.Store != nil {
				if err := n.Store.Save(storage.FromStateStore(n.Engine.Store())); err != nil {
					n.Logger.Printf("snapshot save failed: %v", err)
				}
			}
			continue
		}

		select {
		case <-n.stop:
			return
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (n *Node) shouldStop() bool {
	select {
	case <-n.stop:
		return true
	default:
		return false
	}
}

// Stop lets callers outside of a signal handler end the mining loop,
// e.g. a CLI command that starts a node and then wants to stop it. It
// is safe to call more than once; Run itself still returns only after
// SIGINT/SIGTERM.
func (n *Node) Stop() {
	select {
	case <-n.stop:
	default:
		close(n.stop)
	}
}
