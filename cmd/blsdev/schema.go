package main

import (
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/application/schema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [name]",
		Short: "List wire document schemas or print one",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return schema.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range schema.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			doc, err := schema.Schema(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(doc))
			return err
		},
	}
}
