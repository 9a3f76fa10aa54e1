package shared

import (
	"net/http"

	"vera/internal/domain/registro"
)

// ParseListParams reads the listing query. Unknown sort options and
// malformed numbers or dates are reported per field.
func ParseListParams(r *http.Request) (registro.Params, *Validator) {
	q := r.URL.Query()
	v := NewValidator()

	p := registro.ParseParams(q)
	p.StartSalary = v.Float(registro.ParamStartSalary, q.Get(registro.ParamStartSalary))
	p.EndSalary = v.Float(registro.ParamEndSalary, q.Get(registro.ParamEndSalary))
	p.StartSalaryCalculated = v.Float(registro.ParamStartSalaryCalculated, q.Get(registro.ParamStartSalaryCalculated))
	p.EndSalaryCalculated = v.Float(registro.ParamEndSalaryCalculated, q.Get(registro.ParamEndSalaryCalculated))
	p.StartDate = v.Date(registro.ParamStartDate, q.Get(registro.ParamStartDate))
	p.EndDate = v.Date(registro.ParamEndDate, q.Get(registro.ParamEndDate))

	v.FloatOrder(registro.ParamStartSalary, p.StartSalary, registro.ParamEndSalary, p.EndSalary)
	v.FloatOrder(registro.ParamStartSalaryCalculated, p.StartSalaryCalculated, registro.ParamEndSalaryCalculated, p.EndSalaryCalculated)
	v.DateOrder(registro.ParamStartDate, p.StartDate, registro.ParamEndDate, p.EndDate)

	fields := make([]string, 0, len(registro.SortFields))
	for _, f := range registro.SortFields {
		fields = append(fields, string(f))
	}
	v.Enum(registro.ParamOrderBy, string(p.Field), fields)
	v.Enum(registro.ParamOrder, string(p.Direction), []string{string(registro.SortAsc), string(registro.SortDesc)})

	p.Pagination = ParsePagination(r, registro.DefaultPageSize, registro.MaxPageSize)
	return p, v
}
