package wallet

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 10:05
 */

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
)

const walletFile = "./tmp/wallets_%s.data"

// Wallets is a node-local collection of wallets keyed by address,
// gob-persisted to disk.
type Wallets struct {
	Wallets map[string]*Wallet
}

// LoadWallets opens (or creates) the wallet collection for nodeID.
func LoadWallets(nodeID string) (*Wallets, error) {
	ws := &Wallets{Wallets: make(map[string]*Wallet)}
	err := ws.LoadFile(nodeID)
	return ws, err
}

// AddWallet creates a fresh wallet, stores it under its own address and
// returns that address string.
func (ws *Wallets) AddWallet() (string, error) {
	w, err := Create()
	if err != nil {
		return "", err
	}
	address := w.Address().String()
	ws.Wallets[address] = w
	return address, nil
}

// GetAllAddresses returns every address this collection holds a wallet for.
func (ws *Wallets) GetAllAddresses() []string {
	addresses := make([]string, 0, len(ws.Wallets))
	for address := range ws.Wallets {
		addresses = append(addresses, address)
	}
	return addresses
}

// GetWallet looks up a wallet by address.
func (ws *Wallets) GetWallet(address string) (*Wallet, bool) {
	w, ok := ws.Wallets[address]
	return w, ok
}

// LoadFile reads the node's wallet file from disk, if it exists. A
// missing file is not an error — it means an empty, fresh collection.
func (ws *Wallets) LoadFile(nodeID string) error {
	path := fmt.Sprintf(walletFile, nodeID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wallet: read wallet file: %w", err)
	}
	var loaded Wallets
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&loaded); err != nil {
		return fmt.Errorf("wallet: decode wallet file: %w", err)
	}
	ws.Wallets = loaded.Wallets
	return nil
}

// SaveFile persists the collection for nodeID.
func (ws *Wallets) SaveFile(nodeID string) error {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(ws); err != nil {
		return fmt.Errorf("wallet: encode wallet file: %w", err)
	}
	path := fmt.Sprintf(walletFile, nodeID)
	if err := os.MkdirAll("./tmp", 0o755); err != nil {
		return fmt.Errorf("wallet: create tmp dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("wallet: write wallet file: %w", err)
	}
	return nil
}

// ExportPrivateKey renders a wallet's private key as a base58 string,
// the wallet-backup format a person can copy and paste.
func ExportPrivateKey(w *Wallet) (string, error) {
	data, err := w.GobEncode()
	if err != nil {
		return "", err
	}
	return base58.Encode(data), nil
}

// ImportPrivateKey reverses ExportPrivateKey.
func ImportPrivateKey(encoded string) (*Wallet, error) {
	data, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("wallet: decode private key: %w", err)
	}
	w := new(Wallet)
	if err := w.GobDecode(data); err != nil {
		return nil, err
	}
	return w, nil
}
