package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a data chain and a transaction ledger in process",
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetUint16("difficulty")
		beneficiary, _ := cmd.Flags().GetString("beneficiary")

		return runDemo(cmd.Context(), os.Stdout, difficulty, beneficiary)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Uint16P("difficulty", "d", genesis.Default().Difficulty, "Leading zeros required on a block hash.")
	demoCmd.Flags().StringP("beneficiary", "b", "miner1", "Account receiving the mining rewards.")
}

// runDemo builds a chain of data blocks and then moves value between
// accounts on a ledger, writing the diagnostic JSON of both to w.
func runDemo(ctx context.Context, w io.Writer, difficulty uint16, beneficiary string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	gen := genesis.Default()
	gen.Difficulty = difficulty

	ev := func(v string, args ...any) {
		pterm.Debug.Printfln(v, args...)
	}

	// =========================================================================
	// Data chain

	pterm.DefaultSection.Println("Data chain")

	chain, err := database.NewDataChain(gen.TimeStamp(), gen.Data, database.Config{
		Difficulty: uint(gen.Difficulty),
		EvHandler:  ev,
	})
	if err != nil {
		return err
	}

	entries := []struct {
		date   time.Time
		amount int
	}{
		{time.Date(2018, time.January, 23, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2018, time.February, 12, 0, 0, 0, 0, time.UTC), 8},
		{time.Date(2018, time.March, 18, 0, 0, 0, 0, time.UTC), 12},
	}

	for _, e := range entries {
		data, err := database.NewData(map[string]int{"amount": e.amount})
		if err != nil {
			return err
		}

		b, _, err := chain.Append(ctx, database.NewBlock(0, uint64(e.date.UnixMilli()), data, ""))
		if err != nil {
			return fmt.Errorf("append amount %d: %w", e.amount, err)
		}
		pterm.Success.Printfln("mined block %d: %s", b.Header.Number, b.Hash)
	}

	if err := writeJSON(w, chain); err != nil {
		return err
	}
	pterm.Info.Printfln("data chain valid: %t", chain.IsValid())

	// =========================================================================
	// Transaction ledger

	pterm.DefaultSection.Println("Transaction ledger")

	ldg, err := ledger.New(ledger.Config{Genesis: gen, EvHandler: ev})
	if err != nil {
		return err
	}

	ldg.CreateTransaction(database.NewTx("address1", "address2", 100))
	ldg.CreateTransaction(database.NewTx("address2", "address3", 80))

	account := database.AccountID(beneficiary)
	for i := range 2 {
		b, result, err := ldg.MinePendingTransactions(ctx, account)
		if err != nil {
			return fmt.Errorf("mining cycle %d: %w", i, err)
		}

		pterm.Success.Printfln("mined block %d after %d attempts: %s", b.Header.Number, result.Attempts, b.Hash)
		pterm.Info.Printfln("balance of %s: %d", account, ldg.BalanceOf(account))
	}

	if err := writeJSON(w, ldg); err != nil {
		return err
	}
	pterm.Info.Printfln("ledger valid: %t", ldg.IsValid())

	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
