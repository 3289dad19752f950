package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [account]",
	Short: "List the blocks, or the blocks an account is part of",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var account string
		if len(args) == 1 {
			account = args[0]
		}

		blocks, err := client().Blocks(account)
		if err != nil {
			return err
		}

		if len(blocks) == 0 {
			pterm.Warning.Println("no blocks found")
			return nil
		}

		return renderBlocks(blocks)
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}

// renderBlocks prints a table row per block.
func renderBlocks(blocks []Block) error {
	data := pterm.TableData{{"Number", "Nonce", "Hash", "Prev Hash", "Transactions"}}
	for _, b := range blocks {
		txs := make([]string, len(b.Transactions))
		for i, tx := range b.Transactions {
			from := tx.From
			if tx.Reward {
				from = "reward"
			}
			txs[i] = fmt.Sprintf("%s->%s:%d", from, tx.To, tx.Value)
		}

		data = append(data, []string{
			fmt.Sprint(b.Number),
			fmt.Sprint(b.Nonce),
			short(b.Hash),
			short(b.PrevBlockHash),
			strings.Join(txs, " "),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// short trims a hash for display.
func short(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "..."
}
