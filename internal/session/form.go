package session

import (
	"maps"

	"vera/internal/domain/registro"
)

// Form is the editable content of a record.
type Form struct {
	Employee      string
	Salary        float64
	AdmissionDate string
}

func formOf(rec registro.Record) Form {
	return Form{Employee: rec.Employee, Salary: rec.Salary, AdmissionDate: rec.AdmissionDate}
}

// changes returns the fields of f that differ from rec.
func (f Form) changes(rec registro.Record) registro.UpdateInput {
	var in registro.UpdateInput
	if f.Employee != rec.Employee {
		in.Employee = registro.String(f.Employee)
	}
	if f.Salary != rec.Salary {
		in.Salary = registro.Float(f.Salary)
	}
	if f.AdmissionDate != rec.AdmissionDate {
		in.AdmissionDate = registro.String(f.AdmissionDate)
	}
	return in
}

func (f Form) createInput() registro.CreateInput {
	return registro.CreateInput{Employee: f.Employee, Salary: f.Salary, AdmissionDate: f.AdmissionDate}
}

// fieldErrorSet holds the errors shown next to form fields. Editing a field
// clears its error.
type fieldErrorSet struct {
	errs registro.ValidationErrors
}

func (s *fieldErrorSet) set(errs registro.ValidationErrors) {
	s.errs = maps.Clone(errs)
}

func (s *fieldErrorSet) clear(field string) {
	delete(s.errs, field)
}

func (s *fieldErrorSet) get() registro.ValidationErrors {
	if len(s.errs) == 0 {
		return nil
	}
	return maps.Clone(s.errs)
}
