package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vera/internal/report"
)

func (c *cli) exportCmd() *cobra.Command {
	var filters filterFlags
	var out, title string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export every matching record to a PDF table",
		Example: `  vera export --employee silva --out silva.pdf`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := filters.params(cmd)
			if err != nil {
				return err
			}
			records, err := report.Fetch(cmd.Context(), c.api, params)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			err = report.WritePDF(f, records, report.Options{
				Title:       title,
				Filters:     params.Filters,
				GeneratedAt: time.Now(),
			})
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("%d registros exportados para %s", len(records), out)))
			return nil
		},
	}
	filters.register(cmd, true)
	cmd.Flags().StringVarP(&out, "out", "o", "registros.pdf", "output file")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	return cmd
}
