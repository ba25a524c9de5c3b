package cli

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 17:45
 */

import (
	"fmt"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/kilimba/utxochain/api"
	"github.com/kilimba/utxochain/chain"
	"github.com/kilimba/utxochain/node"
	"github.com/kilimba/utxochain/storage"
	"github.com/kilimba/utxochain/wallet"
)

// CommandLine is the thin dispatcher wiring wallet/chain/api/storage
// together. It is not part of the core; it exists only to give the
// core a way to run as a standalone process.
type CommandLine struct {
	nodeID string
	logger *log.Logger
}

// New builds a CommandLine for the given node ID (conventionally the
// NODE_ID environment variable, giving each local node its own data
// directory).
func New(nodeID string) *CommandLine {
	return &CommandLine{
		nodeID: nodeID,
		logger: log.New(os.Stderr, "cli: ", log.LstdFlags),
	}
}

type options struct {
	CreateWallet  createWalletCmd  `command:"createwallet" description:"Create a new wallet"`
	ListAddresses listAddressesCmd `command:"listaddresses" description:"List the addresses in this node's wallet file"`
	ExportKey     exportKeyCmd     `command:"exportkey" description:"Export a wallet's private key as a base58 string"`
	ImportKey     importKeyCmd     `command:"importkey" description:"Import a base58-encoded private key as a new wallet"`
	Balance       balanceCmd       `command:"getbalance" description:"Get the balance of an address"`
	PrintChain    printChainCmd    `command:"printchain" description:"Print the blocks in the chain"`
	Mine          mineCmd          `command:"mine" description:"Mine one block from the mempool"`
	StartNode     startNodeCmd     `command:"startnode" description:"Start a node that mines continuously"`
	SnapshotInfo  snapshotInfoCmd  `command:"snapshotinfo" description:"Inspect a previously saved snapshot by block index"`
}

// Run parses os.Args[1:] and dispatches to the matching subcommand.
func (cli *CommandLine) Run() int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			parser.WriteHelp(os.Stderr)
			return fmt.Errorf("cli: no command given")
		}
		runner, ok := command.(cliCommand)
		if !ok {
			return fmt.Errorf("cli: command does not implement cliCommand")
		}
		return runner.run(cli)
	}
	if _, err := parser.Parse(); err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			return 0
		}
		cli.logger.Println(err)
		return 1
	}
	return 0
}

// cliCommand is implemented by every subcommand struct; flags.Commander
// requires an Execute([]string) error method, which each command
// forwards into this richer signature carrying the CommandLine.
type cliCommand interface {
	run(cli *CommandLine) error
}

type createWalletCmd struct{}

func (createWalletCmd) Execute(_ []string) error { return nil }
func (createWalletCmd) run(cli *CommandLine) error {
	ws, err := wallet.LoadWallets(cli.nodeID)
	if err != nil {
		return err
	}
	address, err := ws.AddWallet()
	if err != nil {
		return err
	}
	if err := ws.SaveFile(cli.nodeID); err != nil {
		return err
	}
	fmt.Printf("New address: %s\n", address)
	return nil
}

type listAddressesCmd struct{}

func (listAddressesCmd) Execute(_ []string) error { return nil }
func (listAddressesCmd) run(cli *CommandLine) error {
	ws, err := wallet.LoadWallets(cli.nodeID)
	if err != nil {
		return err
	}
	for _, address := range ws.GetAllAddresses() {
		fmt.Println(address)
	}
	return nil
}

type exportKeyCmd struct {
	Address string `short:"a" long:"address" required:"true" description:"Address to export"`
}

func (exportKeyCmd) Execute(_ []string) error { return nil }
func (c exportKeyCmd) run(cli *CommandLine) error {
	ws, err := wallet.LoadWallets(cli.nodeID)
	if err != nil {
		return err
	}
	w, ok := ws.GetWallet(c.Address)
	if !ok {
		return fmt.Errorf("cli: no such address: %s", c.Address)
	}
	encoded, err := wallet.ExportPrivateKey(w)
	if err != nil {
		return err
	}
	fmt.Println(encoded)
	return nil
}

type importKeyCmd struct {
	Key string `short:"k" long:"key" required:"true" description:"base58-encoded private key"`
}

func (importKeyCmd) Execute(_ []string) error { return nil }
func (c importKeyCmd) run(cli *CommandLine) error {
	w, err := wallet.ImportPrivateKey(c.Key)
	if err != nil {
		return err
	}
	ws, err := wallet.LoadWallets(cli.nodeID)
	if err != nil {
		return err
	}
	address := w.Address().String()
	ws.Wallets[address] = w
	if err := ws.SaveFile(cli.nodeID); err != nil {
		return err
	}
	fmt.Printf("Imported address: %s\n", address)
	return nil
}

type balanceCmd struct {
	Address string `short:"a" long:"address" required:"true" description:"Address to query"`
}

func (balanceCmd) Execute(_ []string) error { return nil }
func (c balanceCmd) run(cli *CommandLine) error {
	engine, _, err := cli.openEngine("")
	if err != nil {
		return err
	}
	facade := api.NewFacade(engine)
	fmt.Printf("Balance of %s: %d\n", c.Address, facade.GetBalance(c.Address))
	return nil
}

type printChainCmd struct{}

func (printChainCmd) Execute(_ []string) error { return nil }
func (printChainCmd) run(cli *CommandLine) error {
	engine, _, err := cli.openEngine("")
	if err != nil {
		return err
	}
	facade := api.NewFacade(engine)
	for _, block := range facade.GetChain(0, engine.ChainLen()) {
		fmt.Printf("Block %d: %s (prev %s, %d txs)\n", block.Index, block.Hash(), block.PrevHash, len(block.Txs))
	}
	return nil
}

type mineCmd struct{}

func (mineCmd) Execute(_ []string) error { return nil }
func (mineCmd) run(cli *CommandLine) error {
	engine, store, err := cli.openEngine("")
	if err != nil {
		return err
	}
	defer store.Close()

	if !engine.Mine(func() bool { return false }) {
		fmt.Println("nothing to mine or mining failed")
		return nil
	}
	fmt.Println("mined a block")
	return store.Save(storage.FromStateStore(engine.Store()))
}

type startNodeCmd struct {
	Miner string `short:"m" long:"miner" description:"Address to receive mining rewards; if unset, any wallet on file is used"`
}

func (startNodeCmd) Execute(_ []string) error { return nil }
func (c startNodeCmd) run(cli *CommandLine) error {
	if c.Miner != "" {
		if _, err := wallet.ParseAddress(c.Miner); err != nil {
			return fmt.Errorf("cli: invalid miner address: %w", err)
		}
	}
	engine, store, err := cli.openEngine(c.Miner)
	if err != nil {
		return err
	}
	n := node.New(engine, store, nil, cli.logger)
	fmt.Printf("Starting node %s\n", cli.nodeID)
	n.Run()
	return nil
}

// openEngine opens this node's storage and wallet collection, building
// a chain engine bound to preferredAddress's wallet (or any wallet on
// file, if preferredAddress is empty). The engine's UTXO state resumes
// from the last saved snapshot when one exists; the block history
// itself is not part of the snapshot contract (see storage.Snapshot)
// and always starts empty for a freshly opened process.
func (cli *CommandLine) openEngine(preferredAddress string) (*chain.Engine, storage.SnapshotStore, error) {
	store, err := storage.OpenBadgerSnapshotStore(fmt.Sprintf("./tmp/blocks_%s", cli.nodeID))
	if err != nil {
		return nil, nil, err
	}
	ws, err := wallet.LoadWallets(cli.nodeID)
	if err != nil {
		return nil, nil, err
	}

	var w *wallet.Wallet
	if preferredAddress != "" {
		found, ok := ws.GetWallet(preferredAddress)
		if !ok {
			return nil, nil, fmt.Errorf("cli: no wallet on file for %s", preferredAddress)
		}
		w = found
	} else {
		for _, addr := range ws.GetAllAddresses() {
			w, _ = ws.GetWallet(addr)
			break
		}
	}

	stateStore := chain.NewStateStore(chain.Config{TxsPerBlock: 4, MiningReward: 25, Difficulty: 22})
	if snapshot, ok, err := store.Latest(); err != nil {
		cli.logger.Printf("ignoring unreadable snapshot: %v", err)
	} else if ok {
		stateStore = storage.ToStateStore(snapshot)
		cli.logger.Printf("resumed UTXO state from snapshot at block %d", snapshot.BlockIndex)
	}

	engine := chain.NewEngine(stateStore, w, cli.logger)
	return engine, store, nil
}

type snapshotInfoCmd struct {
	BlockIndex int64 `short:"i" long:"block-index" required:"true" description:"Block index of the snapshot to inspect"`
}

func (snapshotInfoCmd) Execute(_ []string) error { return nil }
func (c snapshotInfoCmd) run(cli *CommandLine) error {
	store, err := storage.OpenBadgerSnapshotStore(fmt.Sprintf("./tmp/blocks_%s", cli.nodeID))
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := store.Load(c.BlockIndex)
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot at block %d: %d archived txs, %d funded addresses\n",
		snapshot.BlockIndex, len(snapshot.TransactionByHash), len(snapshot.UnspentOutputsAmount))
	for addr, amounts := range snapshot.UnspentOutputsAmount {
		var total int64
		for _, amount := range amounts {
			total += amount
		}
		fmt.Printf("  %s: %d\n", addr, total)
	}
	return nil
}
