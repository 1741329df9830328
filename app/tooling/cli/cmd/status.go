package cmd

import (
	"strconv"
	"strings"

	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type nodeStatus struct {
	Host            string      `json:"host"`
	ChainLength     int         `json:"chain_length"`
	LatestBlockHash string      `json:"latest_block_hash"`
	Pending         int         `json:"pending"`
	IsMining        bool        `json:"is_mining"`
	Difficulty      uint        `json:"difficulty"`
	HashAlgorithm   string      `json:"hash_algorithm"`
	KnownPeers      []peer.Peer `json:"known_peers"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of the node.",
	RunE:  statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) error {
	var status nodeStatus
	if err := get("/v1/status", &status); err != nil {
		return err
	}

	peers := make([]string, len(status.KnownPeers))
	for i, pr := range status.KnownPeers {
		peers[i] = pr.Host
	}

	mining := pterm.LightGreen("idle")
	if status.IsMining {
		mining = pterm.LightYellow("mining")
	}

	data := pterm.TableData{
		{"Host", status.Host},
		{"Chain Length", strconv.Itoa(status.ChainLength)},
		{"Latest Block", status.LatestBlockHash},
		{"Pending", strconv.Itoa(status.Pending)},
		{"Miner", mining},
		{"Difficulty", strconv.FormatUint(uint64(status.Difficulty), 10)},
		{"Hash", status.HashAlgorithm},
		{"Peers", strings.Join(peers, ", ")},
	}

	return pterm.DefaultTable.WithData(data).WithBoxed().Render()
}
