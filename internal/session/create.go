package session

import (
	"context"
	"sync"

	"vera/internal/domain/registro"
)

// CreateForm collects a new record. Submit validates locally first; nothing
// reaches the network while a field is invalid.
type CreateForm struct {
	session *Session

	mu   sync.Mutex
	form Form
	errs fieldErrorSet
}

func (s *Session) CreateForm() *CreateForm {
	return &CreateForm{session: s}
}

func (c *CreateForm) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *CreateForm) Errors() registro.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.get()
}

func (c *CreateForm) SetEmployee(name string) {
	c.edit(registro.FieldEmployee, func(f *Form) { f.Employee = name })
}

func (c *CreateForm) SetSalary(salary float64) {
	c.edit(registro.FieldSalary, func(f *Form) { f.Salary = salary })
}

func (c *CreateForm) SetAdmissionDate(date string) {
	c.edit(registro.FieldAdmissionDate, func(f *Form) { f.AdmissionDate = date })
}

func (c *CreateForm) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = Form{}
	c.errs.set(nil)
}

// Submit creates the record and revalidates every list before returning.
// The form is cleared on success.
func (c *CreateForm) Submit(ctx context.Context) (registro.Record, error) {
	in := c.Form().createInput()
	if errs := c.session.validator.ValidateCreate(in); errs != nil {
		c.setErrors(errs)
		return registro.Record{}, errs
	}
	rec, err := c.session.api.CreateRegistro(ctx, in)
	if err != nil {
		c.setErrors(fieldErrors(err))
		return registro.Record{}, err
	}
	c.session.invalidate(ctx, "")
	c.Reset()
	return rec, nil
}

func (c *CreateForm) edit(field string, change func(*Form)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	change(&c.form)
	c.errs.clear(field)
}

func (c *CreateForm) setErrors(errs registro.ValidationErrors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs.set(errs)
}
