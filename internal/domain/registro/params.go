package registro

import (
	"net/url"
	"strconv"
	"strings"

	"vera/internal/platform/querykey"
)

// Query parameter names of the listing endpoint.
const (
	ParamEmployee              = "employee"
	ParamStartSalary           = "startSalary"
	ParamEndSalary             = "endSalary"
	ParamStartSalaryCalculated = "startSalaryCalculated"
	ParamEndSalaryCalculated   = "endSalaryCalculated"
	ParamStartDate             = "startDate"
	ParamEndDate               = "endDate"
	ParamPage                  = "page"
	ParamLimit                 = "limit"
	ParamOrderBy               = "orderBy"
	ParamOrder                 = "order"
)

func (p Params) Values() querykey.Values {
	return querykey.Values{
		ParamEmployee:              p.Employee,
		ParamStartSalary:           p.StartSalary,
		ParamEndSalary:             p.EndSalary,
		ParamStartSalaryCalculated: p.StartSalaryCalculated,
		ParamEndSalaryCalculated:   p.EndSalaryCalculated,
		ParamStartDate:             p.StartDate,
		ParamEndDate:               p.EndDate,
		ParamPage:                  p.Page,
		ParamLimit:                 p.Limit,
		ParamOrderBy:               string(p.Field),
		ParamOrder:                 string(p.Direction),
	}
}

// Query is the URL query string of the listing request, without "?".
func (p Params) Query() string {
	return querykey.EncodeQuery(p.Values())
}

func ListKey(p Params) string {
	return querykey.EncodeKey(ListKeyNamespace, p.Values())
}

func DetailKey(id string) string {
	return DetailKeyPrefix + id
}

func IsListKey(key string) bool {
	namespace, _ := querykey.DecodeKey(key)
	return namespace == ListKeyNamespace
}

func IsDetailKey(key string) bool {
	return strings.HasPrefix(key, DetailKeyPrefix)
}

// ParseListKey recovers the listing parameters from a cache key.
func ParseListKey(key string) (Params, bool) {
	namespace, values := querykey.DecodeKey(key)
	if namespace != ListKeyNamespace {
		return Params{}, false
	}
	return ParamsFromValues(values), true
}

// ParseParams reads a listing query string. Only the first value of each
// parameter counts, and values that do not parse are treated as unset.
func ParseParams(q url.Values) Params {
	v := make(querykey.Values, len(q))
	for name, values := range q {
		if len(values) > 0 {
			v[name] = values[0]
		}
	}
	return ParamsFromValues(v)
}

// ParamsFromValues is lenient: values that do not parse are treated as unset.
func ParamsFromValues(v querykey.Values) Params {
	v = querykey.Clean(v)
	var p Params
	p.Employee = stringValue(v[ParamEmployee])
	p.StartSalary = floatValue(v[ParamStartSalary])
	p.EndSalary = floatValue(v[ParamEndSalary])
	p.StartSalaryCalculated = floatValue(v[ParamStartSalaryCalculated])
	p.EndSalaryCalculated = floatValue(v[ParamEndSalaryCalculated])
	p.StartDate = stringValue(v[ParamStartDate])
	p.EndDate = stringValue(v[ParamEndDate])
	if page := floatValue(v[ParamPage]); page != nil {
		p.Page = int(*page)
	}
	if limit := floatValue(v[ParamLimit]); limit != nil {
		p.Limit = int(*limit)
	}
	p.Field = SortField(stringValue(v[ParamOrderBy]))
	p.Direction = SortDirection(stringValue(v[ParamOrder]))
	return p
}

func stringValue(raw any) string {
	switch typed := raw.(type) {
	case string:
		return typed
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	}
	return ""
}

func floatValue(raw any) *float64 {
	var out float64
	switch typed := raw.(type) {
	case int64:
		out = float64(typed)
	case float64:
		out = typed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return nil
		}
		out = parsed
	default:
		return nil
	}
	return &out
}

// Float returns a pointer to v, for filling optional filter bounds.
func Float(v float64) *float64 {
	return &v
}

func String(v string) *string {
	return &v
}
