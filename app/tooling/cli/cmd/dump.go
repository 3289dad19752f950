package cmd

import (
	"encoding/json"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Write the node's blocks and pending transactions to a JSON file",
	Long:  "Write the node's blocks and pending transactions to a JSON file. The file is for inspection only, nothing reads it back.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client()

		blocks, err := c.Blocks("")
		if err != nil {
			return err
		}

		pending, err := c.Pending()
		if err != nil {
			return err
		}

		dump := struct {
			Blocks  []Block `json:"blocks"`
			Pending []Tx    `json:"pending_transactions"`
		}{
			Blocks:  blocks,
			Pending: pending,
		}

		data, err := json.MarshalIndent(dump, "", "    ")
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return err
		}

		pterm.Success.Printfln("wrote %d blocks to %s", len(blocks), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
