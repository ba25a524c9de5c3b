package wallet

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 18:45
 */

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletsAddAndPersist(t *testing.T) {
	nodeID := "test-" + t.Name()
	defer os.Remove("./tmp/wallets_" + nodeID + ".data")

	ws, err := LoadWallets(nodeID)
	require.NoError(t, err)

	address, err := ws.AddWallet()
	require.NoError(t, err)
	require.NoError(t, ws.SaveFile(nodeID))

	reloaded, err := LoadWallets(nodeID)
	require.NoError(t, err)

	_, ok := reloaded.GetWallet(address)
	assert.True(t, ok)
	assert.Contains(t, reloaded.GetAllAddresses(), address)
}

func TestExportImportPrivateKey(t *testing.T) {
	w, err := Create()
	require.NoError(t, err)

	encoded, err := ExportPrivateKey(w)
	require.NoError(t, err)

	imported, err := ImportPrivateKey(encoded)
	require.NoError(t, err)

	assert.True(t, w.Address().Equal(imported.Address()))
}
