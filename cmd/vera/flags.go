package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vera/internal/domain/registro"
	"vera/internal/session"
)

// filterFlags are the listing filters and sort shared by list, export and
// watch.
type filterFlags struct {
	employee      string
	minSalary     float64
	maxSalary     float64
	minCalculated float64
	maxCalculated float64
	from          string
	to            string
	sort          string
	order         string
}

func (f *filterFlags) register(cmd *cobra.Command, withEmployee bool) {
	flags := cmd.Flags()
	if withEmployee {
		flags.StringVarP(&f.employee, "employee", "e", "", "employee name contains")
	}
	flags.Float64Var(&f.minSalary, "min-salary", 0, "minimum salary")
	flags.Float64Var(&f.maxSalary, "max-salary", 0, "maximum salary")
	flags.Float64Var(&f.minCalculated, "min-calculated", 0, "minimum calculated salary")
	flags.Float64Var(&f.maxCalculated, "max-calculated", 0, "maximum calculated salary")
	flags.StringVar(&f.from, "from", "", "admitted on or after (YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "admitted on or before (YYYY-MM-DD)")
	flags.StringVarP(&f.sort, "sort", "s", "", "sort by employee, salary, calculatedSalary, admissionDate or createdAt")
	flags.StringVar(&f.order, "order", "asc", "sort direction: asc or desc")
}

func (f *filterFlags) filters(cmd *cobra.Command) registro.Filters {
	changed := cmd.Flags().Changed
	out := registro.Filters{Employee: f.employee, StartDate: f.from, EndDate: f.to}
	if changed("min-salary") {
		out.StartSalary = registro.Float(f.minSalary)
	}
	if changed("max-salary") {
		out.EndSalary = registro.Float(f.maxSalary)
	}
	if changed("min-calculated") {
		out.StartSalaryCalculated = registro.Float(f.minCalculated)
	}
	if changed("max-calculated") {
		out.EndSalaryCalculated = registro.Float(f.maxCalculated)
	}
	return out
}

func (f *filterFlags) sortOrder() (registro.Sort, error) {
	if f.sort == "" {
		return registro.Sort{}, nil
	}
	field := registro.SortField(f.sort)
	if !field.Valid() {
		return registro.Sort{}, fmt.Errorf("%w: %q", registro.ErrInvalidSortField, f.sort)
	}
	direction := registro.SortDirection(f.order)
	if !direction.Valid() {
		return registro.Sort{}, fmt.Errorf("%w: %q", registro.ErrInvalidSortOrder, f.order)
	}
	return registro.Sort{Field: field, Direction: direction}, nil
}

// params is the full listing request for commands that bypass the list
// view.
func (f *filterFlags) params(cmd *cobra.Command) (registro.Params, error) {
	sort, err := f.sortOrder()
	if err != nil {
		return registro.Params{}, err
	}
	return registro.Params{Filters: f.filters(cmd), Sort: sort}, nil
}

// apply drives the list view the way the table header clicks would.
func (f *filterFlags) apply(cmd *cobra.Command, view *session.ListView) error {
	sort, err := f.sortOrder()
	if err != nil {
		return err
	}
	view.SetFilters(f.filters(cmd))
	if sort.Field == "" {
		return nil
	}
	if err := view.ToggleSort(sort.Field); err != nil {
		return err
	}
	if sort.Direction == registro.SortDesc {
		return view.ToggleSort(sort.Field)
	}
	return nil
}
