package shared

import (
	"net/http"
	"strconv"
	"strings"

	"vera/internal/domain/registro"
	"vera/internal/transport/http/api"
)

const (
	CodeInvalidNumber = "INVALID_NUMBER"
	CodeInvalidEnum   = "INVALID_ENUM"
	CodeInvalidRange  = "INVALID_RANGE"
)

// Validator collects query parameter problems, one per field.
type Validator struct {
	issues registro.ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{issues: registro.ValidationErrors{}}
}

func (v *Validator) Add(field, code, message string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	if _, exists := v.issues[field]; exists {
		return
	}
	v.issues[field] = registro.FieldError{Code: code, Message: message}
}

// Float parses an optional number. Empty input is unset.
func (v *Validator) Float(field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Add(field, CodeInvalidNumber, "must be a number")
		return nil
	}
	return &parsed
}

// Date parses an optional date into YYYY-MM-DD.
func (v *Validator) Date(field, raw string) string {
	parsed, err := ParseDate(raw)
	if err != nil {
		v.Add(field, registro.CodeDateFormatInvalid, registro.ErrorMessages[registro.CodeDateFormatInvalid])
		return ""
	}
	return parsed
}

func (v *Validator) Enum(field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, CodeInvalidEnum, "must be one of "+strings.Join(allowed, ", "))
}

func (v *Validator) FloatOrder(startField string, start *float64, endField string, end *float64) {
	if start == nil || end == nil || *start <= *end {
		return
	}
	v.Add(startField, CodeInvalidRange, "must not exceed "+endField)
}

// DateOrder compares YYYY-MM-DD strings, which sort chronologically.
func (v *Validator) DateOrder(startField, start, endField, end string) {
	if start == "" || end == "" || start <= end {
		return
	}
	v.Add(startField, CodeInvalidRange, "must be on or before "+endField)
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() registro.ValidationErrors {
	if !v.HasIssues() {
		return nil
	}
	return v.issues
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, fields registro.ValidationErrors) {
	api.FailWithFields(w, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", fields, requestID)
}
