package wallet

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 09:42
 */

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
)

// keyBits is the RSA modulus size used for new wallets. The reference
// implementation this core is modeled on used 512 bits; we keep the same
// size so addresses and signatures stay byte-comparable with it.
const keyBits = 512

// Wallet holds one RSA key pair and signs input commitments with it.
// Its zero value is not usable; build one with Create or by decoding a
// previously persisted Wallet via gob.
type Wallet struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// Create generates a fresh key pair.
func Create() (*Wallet, error) {
	priv, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return &Wallet{PrivateKey: priv, PublicKey: &priv.PublicKey}, nil
}

// Address returns this wallet's address, derived from its public key.
func (w *Wallet) Address() Address {
	return NewAddress(w.PublicKey)
}

// Sign signs message with this wallet's private key and returns the
// lowercase-hex encoded signature, per the wire encoding every peer
// agrees on.
func (w *Wallet) Sign(message []byte) (string, error) {
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, w.PrivateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("wallet: sign: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks sigHex as a signature over message by the key behind addr.
func Verify(message []byte, sigHex string, addr Address) bool {
	if addr.IsZero() {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return rsa.VerifyPKCS1v15(addr.Key(), crypto.SHA256, digest[:], sig) == nil
}

// GobEncode persists the private key alone; the public key is always
// reconstructed from it on decode.
func (w *Wallet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(w.PrivateKey); err != nil {
		return nil, fmt.Errorf("wallet: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores a Wallet from bytes produced by GobEncode.
func (w *Wallet) GobDecode(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	priv := new(rsa.PrivateKey)
	if err := dec.Decode(priv); err != nil {
		return fmt.Errorf("wallet: gob decode: %w", err)
	}
	w.PrivateKey = priv
	w.PublicKey = &priv.PublicKey
	return nil
}
