package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the committed balances",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var account string
		if len(args) == 1 {
			account = args[0]
		}

		bals, err := client().Balances(account)
		if err != nil {
			return err
		}

		data := pterm.TableData{{"Account", "Balance"}}
		for _, bal := range bals.Balances {
			data = append(data, []string{bal.Account, fmt.Sprint(bal.Balance)})
		}

		pterm.Info.Printfln("latest block %s, uncommitted transactions %d", bals.LatestBlock, bals.Uncommitted)
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
