package main

/**
 * Created by GoLand.
 * Project: utxochain
 * User: PETER DANIEL KILIMBA
 * Date: 15/12/2025
 * Time: 18:10
 */

import (
	"os"

	"github.com/kilimba/utxochain/cli"
)

func main() {
	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		nodeID = "3000"
	}
	command := cli.New(nodeID)
	os.Exit(command.Run())
}
