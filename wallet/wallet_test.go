package wallet

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 18:30
 */

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	w, err := Create()
	require.NoError(t, err)

	addr := w.Address()
	encoded := addr.String()
	assert.NotContains(t, encoded, "-----")
	assert.NotContains(t, encoded, "\n")

	parsed, err := ParseAddress(encoded)
	require.NoError(t, err)
	assert.True(t, addr.Equal(parsed))
}

func TestSignAndVerify(t *testing.T) {
	w, err := Create()
	require.NoError(t, err)

	message := []byte("COINBASE0" + w.Address().String() + "0")
	sig, err := w.Sign(message)
	require.NoError(t, err)

	assert.True(t, Verify(message, sig, w.Address()))
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	w1, err := Create()
	require.NoError(t, err)
	w2, err := Create()
	require.NoError(t, err)

	message := []byte("some commitment bytes")
	sig, err := w1.Sign(message)
	require.NoError(t, err)

	assert.False(t, Verify(message, sig, w2.Address()))
}

func TestVerifyRejectsMutatedMessage(t *testing.T) {
	w, err := Create()
	require.NoError(t, err)

	sig, err := w.Sign([]byte("original"))
	require.NoError(t, err)

	assert.False(t, Verify([]byte("mutated"), sig, w.Address()))
}

func TestWalletGobRoundTrip(t *testing.T) {
	w, err := Create()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(w))

	var decoded Wallet
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	assert.True(t, w.Address().Equal(decoded.Address()))
}
