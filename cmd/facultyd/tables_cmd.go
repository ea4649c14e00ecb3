package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"facultysite/domain/faculty"
	"facultysite/internal/tables"

	"github.com/spf13/cobra"
)

func newTablesCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the effective table catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := tables.Load(file)
			if err != nil {
				return err
			}
			return printCatalog(cmd, catalog)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog YAML file (defaults to built-in names)")
	return cmd
}

func printCatalog(cmd *cobra.Command, catalog *tables.Catalog) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSHEET\tRANGE")
	for _, table := range catalog.Sorted() {
		entry := catalog.Entry(table)
		fmt.Fprintf(w, "%s\t%s\t%s\n", table, entry.Sheet, entry.Range)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "LABEL\tCANDIDATES")
	for _, section := range []faculty.LabelSection{
		faculty.LabelResearchPositions,
		faculty.LabelInterests,
		faculty.LabelRequirements,
		faculty.LabelInstructions,
	} {
		fmt.Fprintf(w, "%s\t%s\n", section, strings.Join(catalog.Labels[section], ", "))
	}
	return w.Flush()
}
