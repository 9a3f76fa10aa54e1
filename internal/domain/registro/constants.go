package registro

import "math"

const (
	SortByEmployee         SortField = "employee"
	SortBySalary           SortField = "salary"
	SortByCalculatedSalary SortField = "calculatedSalary"
	SortByAdmissionDate    SortField = "admissionDate"
	SortByCreatedAt        SortField = "createdAt"

	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var SortFields = []SortField{
	SortByEmployee,
	SortBySalary,
	SortByCalculatedSalary,
	SortByAdmissionDate,
	SortByCreatedAt,
}

func (f SortField) Valid() bool {
	for _, candidate := range SortFields {
		if f == candidate {
			return true
		}
	}
	return false
}

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

const (
	FieldEmployee      = "employee"
	FieldSalary        = "salary"
	FieldAdmissionDate = "admissionDate"

	EmployeeMaxLength = 30

	DefaultSalaryMinimum     = 1.0
	DefaultSalaryMaximum     = 100000.0
	DefaultCalculatedPercent = 35.0
	DefaultPageSize          = 8
	MaxPageSize              = 100
	// MaxOffset caps page*limit so offsets stay in range for every store.
	MaxOffset        = math.MaxInt32
	DateLayout       = "2006-01-02"
	ListKeyNamespace = "registros"
	DetailKeyPrefix  = "registro-"
)

// Validation error codes.
const (
	CodeDateFormatInvalid     = "DATE_FORMAT_INVALID"
	CodeAdmissionDateFuture   = "ADMISSION_DATE_FUTURE"
	CodeSalaryMustBePositive  = "SALARY_MUST_BE_POSITIVE"
	CodeSalaryMinimum         = "SALARY_MINIMUM"
	CodeSalaryMaximum         = "SALARY_MAXIMUM"
	CodeEmployeeNameRequired  = "EMPLOYEE_NAME_REQUIRED"
	CodeEmployeeNameMaxLength = "EMPLOYEE_NAME_MAX_LENGTH"
)

// ErrorMessages holds the user-facing text per code. The salary bound
// messages are templates receiving the formatted bound.
var ErrorMessages = map[string]string{
	CodeDateFormatInvalid:     "Formato de data inválido. Use YYYY-MM-DD.",
	CodeAdmissionDateFuture:   "A data de admissão não pode estar no futuro.",
	CodeSalaryMustBePositive:  "O salário deve ser um valor positivo.",
	CodeSalaryMinimum:         "O salário mínimo é %s.",
	CodeSalaryMaximum:         "O salário máximo é %s.",
	CodeEmployeeNameRequired:  "O nome do funcionário é obrigatório.",
	CodeEmployeeNameMaxLength: "O nome do funcionário deve ter no máximo 30 caracteres.",
}
