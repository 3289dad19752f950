// This program is a client for the ledger service and a way to run the
// ledger in process.
package main

import "github.com/ardanlabs/ledger/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
