package cmd

import (
	"encoding/json"
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var data string

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "Transaction as any json value.")
	sendCmd.MarkFlagRequired("data")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if !json.Valid([]byte(data)) {
		return errors.New("data is not valid json")
	}

	tx := struct {
		Data json.RawMessage `json:"data"`
	}{
		Data: json.RawMessage(data),
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := post("/v1/tx/submit", tx, &resp); err != nil {
		return err
	}

	pterm.Success.Println(resp.Status)
	return nil
}
