package registro

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors maps a payload field to its first failing rule.
// A nil map means the payload is valid.
type ValidationErrors map[string]FieldError

func (v ValidationErrors) Error() string {
	fields := v.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field].Code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields returns the failing field names in a stable order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for field := range v {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

func (v ValidationErrors) Has(field, code string) bool {
	fe, ok := v[field]
	return ok && fe.Code == code
}

type SalaryBounds struct {
	Minimum float64
	Maximum float64
}

func DefaultSalaryBounds() SalaryBounds {
	return SalaryBounds{Minimum: DefaultSalaryMinimum, Maximum: DefaultSalaryMaximum}
}

// Validator checks record payloads. Now is injectable so the future-date
// rule can be pinned in tests.
type Validator struct {
	Bounds SalaryBounds
	Now    func() time.Time
}

func NewValidator(bounds SalaryBounds) *Validator {
	return &Validator{Bounds: bounds, Now: time.Now}
}

func (v *Validator) ValidateCreate(in CreateInput) ValidationErrors {
	errs := ValidationErrors{}
	v.employee(errs, in.Employee)
	v.salary(errs, in.Salary)
	v.admissionDate(errs, in.AdmissionDate)
	return errs.orNil()
}

// ValidateUpdate validates only the fields present in the partial payload.
func (v *Validator) ValidateUpdate(in UpdateInput) ValidationErrors {
	errs := ValidationErrors{}
	if in.Employee != nil {
		v.employee(errs, *in.Employee)
	}
	if in.Salary != nil {
		v.salary(errs, *in.Salary)
	}
	if in.AdmissionDate != nil {
		v.admissionDate(errs, *in.AdmissionDate)
	}
	return errs.orNil()
}

func (v *Validator) employee(errs ValidationErrors, raw string) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		errs.add(FieldEmployee, CodeEmployeeNameRequired)
	case utf8.RuneCountInString(name) > EmployeeMaxLength:
		errs.add(FieldEmployee, CodeEmployeeNameMaxLength)
	}
}

func (v *Validator) salary(errs ValidationErrors, salary float64) {
	switch {
	case math.IsNaN(salary), math.IsInf(salary, 0), salary <= 0:
		errs.add(FieldSalary, CodeSalaryMustBePositive)
	case salary < v.Bounds.Minimum:
		errs[FieldSalary] = FieldError{
			Code:    CodeSalaryMinimum,
			Message: fmt.Sprintf(ErrorMessages[CodeSalaryMinimum], FormatBRL(v.Bounds.Minimum)),
		}
	case v.Bounds.Maximum > 0 && salary > v.Bounds.Maximum:
		errs[FieldSalary] = FieldError{
			Code:    CodeSalaryMaximum,
			Message: fmt.Sprintf(ErrorMessages[CodeSalaryMaximum], FormatBRL(v.Bounds.Maximum)),
		}
	}
}

func (v *Validator) admissionDate(errs ValidationErrors, raw string) {
	today := v.today()
	date, ok := parseDate(raw, today.Location())
	if !ok {
		errs.add(FieldAdmissionDate, CodeDateFormatInvalid)
		return
	}
	if date.After(today) {
		errs.add(FieldAdmissionDate, CodeAdmissionDateFuture)
	}
}

// today is the current date at local midnight.
func (v *Validator) today() time.Time {
	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// ParseDate accepts only real calendar dates in YYYY-MM-DD form, at local
// midnight.
func ParseDate(raw string) (time.Time, bool) {
	return parseDate(raw, time.Local)
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	if !datePattern.MatchString(raw) {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (v ValidationErrors) add(field, code string) {
	v[field] = FieldError{Code: code, Message: ErrorMessages[code]}
}

func (v ValidationErrors) orNil() ValidationErrors {
	if len(v) == 0 {
		return nil
	}
	return v
}
