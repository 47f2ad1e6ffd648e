// main holds the entry logic for the codetriage CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kweller/codetriage/cmd"
	"github.com/kweller/codetriage/core"
	"github.com/kweller/codetriage/internal/history"
)

func main() {
	os.Exit(run())
}

// run keeps deferred cleanup working, since os.Exit skips defers.
func run() int {
	defer history.CloseStores()
	defer func() { _ = cmd.StopProfiling() }()

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, core.ErrCriticalFindings) {
			// The report was already written; the error is the CI signal.
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
