package registro

import "time"

// Record is one employee income entry. CalculatedSalary and
// CalculatedAdmissionDate are always computed by the server.
type Record struct {
	ID                      string    `json:"id"`
	Employee                string    `json:"employee"`
	Salary                  float64   `json:"salary"`
	CalculatedSalary        float64   `json:"calculatedSalary"`
	AdmissionDate           string    `json:"admissionDate"`
	CalculatedAdmissionDate string    `json:"calculatedAdmissionDate"`
	CreatedAt               time.Time `json:"createdAt"`
}

// Filters narrows a record listing. Nil fields and empty strings are unset.
type Filters struct {
	Employee              string   `json:"employee,omitempty"`
	StartSalary           *float64 `json:"startSalary,omitempty"`
	EndSalary             *float64 `json:"endSalary,omitempty"`
	StartSalaryCalculated *float64 `json:"startSalaryCalculated,omitempty"`
	EndSalaryCalculated   *float64 `json:"endSalaryCalculated,omitempty"`
	StartDate             string   `json:"startDate,omitempty"`
	EndDate               string   `json:"endDate,omitempty"`
}

func (f Filters) IsZero() bool {
	return f.Employee == "" && f.StartSalary == nil && f.EndSalary == nil &&
		f.StartSalaryCalculated == nil && f.EndSalaryCalculated == nil &&
		f.StartDate == "" && f.EndDate == ""
}

type SortField string

type SortDirection string

// Sort is the single active ordering of a listing. An empty Field means
// server default ordering.
type Sort struct {
	Field     SortField     `json:"orderBy,omitempty"`
	Direction SortDirection `json:"order,omitempty"`
}

// Toggle returns the sort after the user selects field: the active field
// flips direction, any other field starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Direction == SortAsc {
			return Sort{Field: field, Direction: SortDesc}
		}
		return Sort{Field: field, Direction: SortAsc}
	}
	return Sort{Field: field, Direction: SortAsc}
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset is the number of records before the page. Pages past MaxOffset
// saturate instead of overflowing.
func (p Pagination) Offset() int {
	if p.Page <= 0 || p.Limit <= 0 {
		return 0
	}
	if p.Page > MaxOffset/p.Limit {
		return MaxOffset
	}
	return p.Page * p.Limit
}

// Params is the full request state of a listing and the unit of cache keying.
type Params struct {
	Filters
	Sort
	Pagination
}

type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListResponse struct {
	Data       []Record       `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// CreateInput is the payload of a new record as typed into the form.
type CreateInput struct {
	Employee      string  `json:"employee"`
	Salary        float64 `json:"salary"`
	AdmissionDate string  `json:"admissionDate"`
}

// UpdateInput is a partial payload; nil fields are left unchanged.
type UpdateInput struct {
	Employee      *string  `json:"employee,omitempty"`
	Salary        *float64 `json:"salary,omitempty"`
	AdmissionDate *string  `json:"admissionDate,omitempty"`
}

func (u UpdateInput) IsEmpty() bool {
	return u.Employee == nil && u.Salary == nil && u.AdmissionDate == nil
}

func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
