package cmd

import (
	"strconv"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var verbose bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the blocks in the chain.",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the transactions of every block.")
}

func chainRun(cmd *cobra.Command, args []string) error {
	var blocks []database.Block
	if err := get("/v1/chain", &blocks); err != nil {
		return err
	}

	if len(blocks) == 0 {
		pterm.Warning.Println("the chain is empty")
		return nil
	}

	data := pterm.TableData{
		{"#", "Hash", "Previous", "Time", "Nonce", "Txs"},
	}
	for i, block := range blocks {
		data = append(data, []string{
			strconv.Itoa(i),
			block.ShortHash(),
			database.Short(block.PreviousHash),
			time.UnixMilli(block.Timestamp).Format(time.DateTime),
			strconv.FormatUint(block.Nonce, 10),
			strconv.Itoa(len(block.Transactions)),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if verbose {
		for i, block := range blocks {
			for _, tx := range block.Transactions {
				pterm.Printfln("%s %s", pterm.LightCyan(i), tx)
			}
		}
	}

	return nil
}
