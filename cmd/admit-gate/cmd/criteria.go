package cmd

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/catalog"
	"github.com/Sentinel-Gate/admitgate/internal/config"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

var criteriaYAML bool

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "List the criteria of the active policy",
	Long: `List the criterion names and labels of the active policy in canonical order.

With --yaml the catalog is printed as a policy document that can be edited
and passed back with --policy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.Policy.File)
		if err != nil {
			return err
		}
		return writeCriteria(cmd.OutOrStdout(), cat, criteriaYAML)
	},
}

func init() {
	criteriaCmd.Flags().BoolVar(&criteriaYAML, "yaml", false, "print the catalog as a YAML policy document")
	rootCmd.AddCommand(criteriaCmd)
}

func writeCriteria(w io.Writer, cat *criteria.Catalog, asYAML bool) error {
	if asYAML {
		data, err := catalog.Marshal(cat)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s (%s)\n", cat.Title(), cat.Name())
	fmt.Fprintln(bw, "Admit when: at least one criterion is met")
	fmt.Fprintln(bw)

	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL")
	for _, d := range cat.Definitions() {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if notes := cat.Notes(); len(notes) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Notes:")
		for _, n := range notes {
			fmt.Fprintf(bw, " - when %s: %s\n", n.When, n.Text)
		}
	}
	return bw.Flush()
}
