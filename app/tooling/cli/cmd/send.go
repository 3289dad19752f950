package cmd

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's pending pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		value, _ := cmd.Flags().GetUint64("value")

		if from == "" || to == "" {
			return errors.New("both --from and --to are required")
		}

		if err := checkValue(value); err != nil {
			return err
		}

		pending, err := client().Submit(Tx{From: from, To: to, Value: value})
		if err != nil {
			return err
		}

		pterm.Success.Printfln("%s -> %s: %d submitted, pending[%d]", from, to, value, pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringP("from", "f", "", "Account sending the value.")
	sendCmd.Flags().StringP("to", "t", "", "Account receiving the value.")
	sendCmd.Flags().Uint64P("value", "v", 0, "Value to send.")
}

// checkValue rejects values the node would refuse since balances are signed.
func checkValue(value uint64) error {
	if value > database.MaxValue {
		return fmt.Errorf("value %d exceeds the maximum of %d", value, database.MaxValue)
	}

	return nil
}
