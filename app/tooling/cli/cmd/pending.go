package cmd

import (
	"strconv"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined.",
	RunE:  pendingRun,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func pendingRun(cmd *cobra.Command, args []string) error {
	var trans []database.Tx
	if err := get("/v1/tx/pending", &trans); err != nil {
		return err
	}

	if len(trans) == 0 {
		pterm.Info.Println("no pending transactions")
		return nil
	}

	data := pterm.TableData{
		{"#", "Transaction"},
	}
	for i, tx := range trans {
		data = append(data, []string{strconv.Itoa(i), tx.String()})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
