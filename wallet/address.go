package wallet

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 09:10
 */

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
)

// pemBlockType is the header/footer tag an RSA public key is wrapped in
// before an Address strips it back out. The wire address is just the
// base64 body of this block with every newline removed.
const pemBlockType = "RSA PUBLIC KEY"

// Address wraps a public key. Its string form is the PEM body of the key
// with the "-----BEGIN/END RSA PUBLIC KEY-----" lines and all interior
// line breaks removed, per the wire format every peer agrees on.
// Two addresses compare equal iff their keys encode to equal bytes, which
// is why Equal (not ==) is the right way to compare two Address values.
type Address struct {
	key *rsa.PublicKey
}

// NewAddress wraps an already-parsed public key.
func NewAddress(key *rsa.PublicKey) Address {
	return Address{key: key}
}

// Key returns the underlying public key, e.g. for signature verification.
func (a Address) Key() *rsa.PublicKey {
	return a.key
}

// String renders the stripped, base-encoded public-key body used as the
// wire/storage form of an address everywhere else in this codebase.
func (a Address) String() string {
	if a.key == nil {
		return ""
	}
	der := x509.MarshalPKCS1PublicKey(a.key)
	block := &pem.Block{Type: pemBlockType, Bytes: der}
	full := string(pem.EncodeToMemory(block))
	lines := strings.Split(strings.TrimRight(full, "\n"), "\n")
	if len(lines) < 3 {
		return ""
	}
	// lines[0] is "-----BEGIN...", lines[len-1] is "-----END...";
	// everything in between is the base64 body we want concatenated.
	return strings.Join(lines[1:len(lines)-1], "")
}

// Equal reports whether two addresses encode the same public key.
func (a Address) Equal(other Address) bool {
	if a.key == nil || other.key == nil {
		return a.key == other.key
	}
	return a.key.Equal(other.key)
}

// IsZero reports whether the address wraps no key at all.
func (a Address) IsZero() bool {
	return a.key == nil
}

// ParseAddress reconstructs an Address from its stripped string form by
// rewrapping it in PEM headers/footers with 64-column line breaks (the
// format pem.Decode expects) before parsing the DER body.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("wallet: empty address")
	}
	full := wrapPEM(s, pemBlockType)
	block, _ := pem.Decode([]byte(full))
	if block == nil {
		return Address{}, fmt.Errorf("wallet: address is not valid PEM body")
	}
	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return Address{}, fmt.Errorf("wallet: parse public key: %w", err)
	}
	return Address{key: key}, nil
}

// wrapPEM rebuilds a PEM block's text form from a bare base64 body,
// the exact inverse of the stripping String() does.
func wrapPEM(body string, blockType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-----BEGIN %s-----\n", blockType)
	for i := 0; i < len(body); i += 64 {
		end := i + 64
		if end > len(body) {
			end = len(body)
		}
		b.WriteString(body[i:end])
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "-----END %s-----\n", blockType)
	return b.String()
}
