package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List dialogs and templates",
	Long: `List the catalog's dialogs and the templates available to them.
Templates from the templates directory override built-in ones with the
same id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tDIALOG\tTITLE\tSOURCE")
		for i, def := range cat.Definitions() {
			key := "-"
			if i < 9 {
				key = fmt.Sprint(i + 1)
			}
			source := "content"
			if def.Content == "" && def.Template != "" {
				source = "template:" + def.Template
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, def.ID, def.Name(), source)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "TEMPLATE\tFROM")
		for _, id := range cat.Templates() {
			src, _ := cat.TemplateSource(id)
			fmt.Fprintf(w, "%s\t%s\n", id, src)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
