package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var listQuery string

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the cases in the dataset",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by name, civil number, court or keyword")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := loadStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	cases := store.List(listQuery)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		text.FgGreen.Sprint("#"),
		text.FgGreen.Sprint("Case"),
		text.FgGreen.Sprint("Civil Number"),
		text.FgGreen.Sprint("Court"),
		text.FgGreen.Sprint("Date Filed"),
	})
	for _, c := range cases {
		t.AppendRow(table.Row{c.Index, c.Name, c.CivilNumber, c.Court, c.DateFiled})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 48},
		{Number: 4, WidthMax: 40},
	})
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d cases\n", len(cases), store.Count())
	return nil
}
