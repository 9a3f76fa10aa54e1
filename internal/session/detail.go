package session

import (
	"context"
	"errors"
	"sync"

	"vera/internal/domain/registro"
	"vera/internal/platform/fetchcache"
)

type DetailState struct {
	Record       registro.Record
	Loaded       bool
	Err          error
	IsLoading    bool
	IsValidating bool
}

func detailState(st fetchcache.State) DetailState {
	out := DetailState{Err: st.Err, IsLoading: st.IsLoading, IsValidating: st.IsValidating}
	if rec, ok := st.Data.(registro.Record); ok {
		out.Record, out.Loaded = rec, true
	}
	return out
}

// DetailView shows one record and edits it. The form follows the loaded
// record until a field is edited.
type DetailView struct {
	session *Session
	id      string
	key     string
	sub     *fetchcache.Subscription
	updates chan DetailState
	wg      sync.WaitGroup

	mu     sync.Mutex
	form   Form
	dirty  bool
	errs   fieldErrorSet
	closed bool
}

func (s *Session) Detail(id string) *DetailView {
	v := &DetailView{
		session: s,
		id:      id,
		key:     registro.DetailKey(id),
		updates: make(chan DetailState, 1),
	}
	v.sub = s.cache.Subscribe(v.key, s.detailFetcher(id))
	v.wg.Add(1)
	go v.forward()
	return v
}

func (v *DetailView) ID() string {
	return v.id
}

func (v *DetailView) State() DetailState {
	return detailState(v.sub.State())
}

// Updates delivers the latest state and is closed by Close.
func (v *DetailView) Updates() <-chan DetailState {
	return v.updates
}

// Load waits for the record.
func (v *DetailView) Load(ctx context.Context) (registro.Record, error) {
	data, err := v.session.cache.Load(ctx, v.key, v.session.detailFetcher(v.id))
	if err != nil {
		return registro.Record{}, err
	}
	rec, _ := data.(registro.Record)
	return rec, nil
}

func (v *DetailView) Refresh(ctx context.Context) error {
	return v.session.cache.Mutate(ctx, v.key)
}

func (v *DetailView) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.formLocked()
}

func (v *DetailView) formLocked() Form {
	if v.dirty {
		return v.form
	}
	return formOf(v.State().Record)
}

func (v *DetailView) Errors() registro.ValidationErrors {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errs.get()
}

func (v *DetailView) SetEmployee(name string) {
	v.edit(registro.FieldEmployee, func(f *Form) { f.Employee = name })
}

func (v *DetailView) SetSalary(salary float64) {
	v.edit(registro.FieldSalary, func(f *Form) { f.Salary = salary })
}

func (v *DetailView) SetAdmissionDate(date string) {
	v.edit(registro.FieldAdmissionDate, func(f *Form) { f.AdmissionDate = date })
}

// Reset discards edits.
func (v *DetailView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form, v.dirty = Form{}, false
	v.errs.set(nil)
}

func (v *DetailView) edit(field string, change func(*Form)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.formLocked()
	change(&f)
	v.form, v.dirty = f, true
	v.errs.clear(field)
}

// Save validates the edited fields and sends the changed ones. On success
// the detail and every list are revalidated before Save returns.
func (v *DetailView) Save(ctx context.Context) (registro.Record, error) {
	st := v.State()
	if !st.Loaded {
		if st.Err != nil {
			return registro.Record{}, st.Err
		}
		return registro.Record{}, registro.ErrNotFound
	}

	v.mu.Lock()
	in := v.formLocked().changes(st.Record)
	v.mu.Unlock()
	if in.IsEmpty() {
		return st.Record, nil
	}

	if errs := v.session.validator.ValidateUpdate(in); errs != nil {
		v.setErrors(errs)
		return registro.Record{}, errs
	}
	rec, err := v.session.api.UpdateRegistro(ctx, v.id, in)
	if err != nil {
		v.setErrors(fieldErrors(err))
		return registro.Record{}, err
	}
	v.session.invalidate(ctx, v.id)

	v.Reset()
	return rec, nil
}

// Delete removes the record, closes the view and revalidates every list.
func (v *DetailView) Delete(ctx context.Context) error {
	if err := v.session.api.DeleteRegistro(ctx, v.id); err != nil && !errors.Is(err, registro.ErrNotFound) {
		return err
	}
	v.Close()
	v.session.invalidate(ctx, v.id)
	return nil
}

func (v *DetailView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.sub.Close()
	v.wg.Wait()
	close(v.updates)
}

func (v *DetailView) setErrors(errs registro.ValidationErrors) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs.set(errs)
}

func (v *DetailView) forward() {
	defer v.wg.Done()
	for st := range v.sub.Updates() {
		v.publish(detailState(st))
	}
}

func (v *DetailView) publish(st DetailState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	select {
	case <-v.updates:
	default:
	}
	v.updates <- st
}
