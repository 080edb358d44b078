package main

import (
	"fmt"
	"runtime"

	bls "github.com/blessnetwork/bls-sdk-go"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the SDK version and host ABI",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blsdev %s (abi %s, %s)\n", bls.Version, bls.HostABI, runtime.Version())
		},
	}
}
