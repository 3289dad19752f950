package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load the genesis file.")
	{
		dir := t.TempDir()

		t.Logf("\tTest 0:\tWhen the file overrides a subset of the settings.")
		{
			path := filepath.Join(dir, "genesis.json")
			if err := os.WriteFile(path, []byte(`{"date":"2021-12-17T00:00:00Z","difficulty":2}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write the file: %v", failed, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the file: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the file.", success)

			if gen.Difficulty != 2 || gen.MiningReward != genesis.Default().MiningReward {
				t.Fatalf("\t%s\tTest 0:\tShould keep defaults for missing fields: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould keep defaults for missing fields.", success)

			if gen.TimeStamp() != 1639699200000 {
				t.Fatalf("\t%s\tTest 0:\tShould get the date in unix milliseconds: %d", failed, gen.TimeStamp())
			}
			t.Logf("\t%s\tTest 0:\tShould get the date in unix milliseconds.", success)
		}

		t.Logf("\tTest 1:\tWhen the difficulty is out of range.")
		{
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, []byte(`{"difficulty":65}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write the file: %v", failed, err)
			}

			_, err := genesis.Load(path)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 1:\tShould get a validation error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get a validation error.", success)
		}

		t.Logf("\tTest 2:\tWhen the file doesn't exist.")
		{
			if _, err := genesis.Load(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
				t.Fatalf("\t%s\tTest 2:\tShould get a not exist error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get a not exist error.", success)
		}

		t.Logf("\tTest 3:\tWhen the mining reward can't be held in a balance.")
		{
			gen := genesis.Default()
			gen.MiningReward = 1 << 63

			if err := gen.Validate(); !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 3:\tShould get a validation error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould get a validation error.", success)

			gen.MiningReward = 1<<63 - 1
			if err := gen.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould accept the largest reward: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould accept the largest reward.", success)
		}
	}
}
