package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Validate custom policy files",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a YAML policy catalog",
	Long: `Parse and validate a YAML policy catalog without evaluating anything.

Checks that the policy has a name and at least one criterion, that criterion
names are lowercase identifiers, unique and not reserved metadata keys, and
that every note condition compiles to a boolean CEL expression.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newCatalogLoader()
		if err != nil {
			return err
		}
		cat, err := loader.LoadFile(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: policy %q OK (%d criteria, %d notes)\n",
			args[0], cat.Name(), cat.Len(), len(cat.Notes()))
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyCheckCmd)
	rootCmd.AddCommand(policyCmd)
}
