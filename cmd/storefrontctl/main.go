// Command storefrontctl is an operator tool for the storefront: it evaluates
// route guard decisions and mints development session tokens.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Operate the storefront route guard and sessions",
		SilenceUsage: true,
	}
	root.AddCommand(newDecideCmd(), newTokenCmd())
	return root
}
