package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("nothing to update: pass --employee, --salary or --date")

func (c *cli) listCmd() *cobra.Command {
	var filters filterFlags
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, filtered, sorted and paginated",
		Example: `  vera list --employee silva --sort salary --order desc
  vera list --from 2023-01-01 --to 2023-12-31 --page 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := c.session.List()
			defer view.Close()
			if err := filters.apply(cmd, view); err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				view.SetLimit(limit)
			}
			view.SetPage(page)

			st, err := view.Load(cmd.Context())
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), st)
		},
	}
	filters.register(cmd, true)
	cmd.Flags().IntVarP(&page, "page", "p", 0, "zero-based page")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "records per page")
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := c.session.Detail(args[0])
			defer detail.Close()
			rec, err := detail.Load(cmd.Context())
			if err != nil {
				return err
			}
			return c.printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

type recordFlags struct {
	employee string
	salary   float64
	date     string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.employee, "employee", "e", "", "employee name (max 30 characters)")
	cmd.Flags().Float64Var(&f.salary, "salary", 0, "monthly salary in BRL")
	cmd.Flags().StringVar(&f.date, "date", "", "admission date (YYYY-MM-DD)")
}

func (c *cli) createCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a record",
		Example: `  vera create --employee "Ana Souza" --salary 4500 --date 2024-02-01`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := c.session.CreateForm()
			form.SetEmployee(f.employee)
			form.SetSalary(f.salary)
			form.SetAdmissionDate(f.date)
			rec, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return c.printRecord(cmd.OutOrStdout(), rec)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Change fields of a record",
		Example: `  vera update 6f1c... --salary 5200`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			if !changed("employee") && !changed("salary") && !changed("date") {
				return errNothingToUpdate
			}
			detail := c.session.Detail(args[0])
			defer detail.Close()
			if _, err := detail.Load(cmd.Context()); err != nil {
				return err
			}
			if changed("employee") {
				detail.SetEmployee(f.employee)
			}
			if changed("salary") {
				detail.SetSalary(f.salary)
			}
			if changed("date") {
				detail.SetAdmissionDate(f.date)
			}
			rec, err := detail.Save(cmd.Context())
			if err != nil {
				return err
			}
			return c.printRecord(cmd.OutOrStdout(), rec)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Detail(args[0]).Delete(cmd.Context()); err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Registro excluído: "+args[0]))
			return nil
		},
	}
}
