package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Signal the node to mine the pending transactions.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var resp struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}
	if err := post("/v1/mining/signal", nil, &resp); err != nil {
		return err
	}

	if resp.Pending == 0 {
		pterm.Info.Println("no pending transactions to mine")
		return nil
	}

	pterm.Success.Printfln("%s: %d pending", resp.Status, resp.Pending)
	return nil
}
