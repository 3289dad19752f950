package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the integrity check on the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := client().Validate()
		if err != nil {
			return err
		}

		if !v.Valid {
			return fmt.Errorf("chain is invalid at block %d: %s", v.Number, v.Reason)
		}

		pterm.Success.Println("chain is valid")
		return nil
	},
}

var proveCmd = &cobra.Command{
	Use:   "prove [block]",
	Short: "Prove a transaction was committed by a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var number uint64
		if _, err := fmt.Sscan(args[0], &number); err != nil {
			return fmt.Errorf("invalid block number %q", args[0])
		}

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		value, _ := cmd.Flags().GetUint64("value")

		if err := checkValue(value); err != nil {
			return err
		}

		proof, err := client().Proof(number, Tx{From: from, To: to, Value: value})
		if err != nil {
			return err
		}

		if !proof.Verify() {
			return fmt.Errorf("proof for block %d doesn't verify against root %s", number, proof.Root)
		}

		pterm.Success.Printfln("transaction committed by block %d with root %s", number, proof.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringP("from", "f", "", "Account that sent the value, empty for a reward.")
	proveCmd.Flags().StringP("to", "t", "", "Account that received the value.")
	proveCmd.Flags().Uint64P("value", "v", 0, "Value of the transaction.")
}
