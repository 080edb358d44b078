// Command blsdev runs bls guests locally against scripted host fixtures
// and prints the JSON Schemas of the host wire documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
