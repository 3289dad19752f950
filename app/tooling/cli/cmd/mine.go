package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine [reward-account]",
	Short: "Mine the pending transactions into a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, _ := pterm.DefaultSpinner.Start("Mining pending transactions...")

		mined, err := client().Mine(args[0])
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}

		spinner.Success(pterm.Sprintf("Mined block %d after %d attempts: %s", mined.Block.Number, mined.Attempts, mined.Block.Hash))
		return renderBlocks([]Block{mined.Block})
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
