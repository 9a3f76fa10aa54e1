package session

import (
	"context"
	"strings"
	"sync"

	"vera/internal/domain/registro"
	"vera/internal/platform/debounce"
	"vera/internal/platform/fetchcache"
)

type ListState struct {
	Params       registro.Params
	Records      []registro.Record
	Pagination   registro.PaginationMeta
	Err          error
	IsLoading    bool
	IsValidating bool
}

func listState(p registro.Params, st fetchcache.State) ListState {
	out := ListState{
		Params:       p,
		Err:          st.Err,
		IsLoading:    st.IsLoading,
		IsValidating: st.IsValidating,
	}
	if resp, ok := st.Data.(registro.ListResponse); ok {
		out.Records = resp.Data
		out.Pagination = resp.Pagination
	}
	return out
}

// ListView is the filterable, sortable, paginated record table. Employee
// text is debounced; every other change applies at once. Changing filters
// or sort returns to the first page.
type ListView struct {
	session *Session
	filter  *debounce.Buffer[string]
	updates chan ListState
	wg      sync.WaitGroup

	mu     sync.Mutex
	params registro.Params
	key    string
	sub    *fetchcache.Subscription
	closed bool
}

func (s *Session) List() *ListView {
	v := &ListView{session: s, updates: make(chan ListState, 1)}
	v.params.Limit = s.opts.PageSize
	v.filter = debounce.New(s.opts.Debounce, v.applyEmployee)
	v.mu.Lock()
	v.resubscribeLocked()
	v.mu.Unlock()
	return v
}

// Updates delivers the latest state; intermediate states may be skipped.
// It is closed by Close.
func (v *ListView) Updates() <-chan ListState {
	return v.updates
}

func (v *ListView) State() ListState {
	v.mu.Lock()
	p, sub := v.params, v.sub
	v.mu.Unlock()
	return listState(p, sub.State())
}

func (v *ListView) Params() registro.Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Load waits for the data of the current parameters.
func (v *ListView) Load(ctx context.Context) (ListState, error) {
	v.mu.Lock()
	p, key := v.params, v.key
	v.mu.Unlock()
	data, err := v.session.cache.Load(ctx, key, v.session.listFetcher(p))
	if err != nil {
		return ListState{Params: p, Err: err}, err
	}
	return listState(p, fetchcache.State{Data: data}), nil
}

// SetEmployeeFilter queues the employee text; it applies once typing has
// paused for the debounce delay.
func (v *ListView) SetEmployeeFilter(text string) {
	v.filter.Push(text)
}

// FlushEmployeeFilter applies queued employee text immediately.
func (v *ListView) FlushEmployeeFilter() bool {
	return v.filter.Flush()
}

// SetFilters replaces every filter at once, discarding queued text.
func (v *ListView) SetFilters(f registro.Filters) {
	v.filter.Cancel()
	f.Employee = strings.TrimSpace(f.Employee)
	v.update(func(p *registro.Params) {
		p.Filters = f
		p.Page = 0
	})
}

func (v *ListView) ClearFilters() {
	v.SetFilters(registro.Filters{})
}

func (v *ListView) ToggleSort(field registro.SortField) error {
	if !field.Valid() {
		return registro.ErrInvalidSortField
	}
	v.update(func(p *registro.Params) {
		p.Sort = p.Sort.Toggle(field)
		p.Page = 0
	})
	return nil
}

func (v *ListView) SetPage(page int) {
	v.update(func(p *registro.Params) {
		p.Page = max(page, 0)
	})
}

func (v *ListView) NextPage() bool {
	st := v.State()
	if st.Params.Page+1 >= st.Pagination.TotalPages {
		return false
	}
	v.SetPage(st.Params.Page + 1)
	return true
}

func (v *ListView) PrevPage() bool {
	p := v.Params()
	if p.Page == 0 {
		return false
	}
	v.SetPage(p.Page - 1)
	return true
}

func (v *ListView) SetLimit(limit int) {
	if limit <= 0 {
		limit = v.session.opts.PageSize
	}
	v.update(func(p *registro.Params) {
		p.Limit = limit
		p.Page = 0
	})
}

// Refresh refetches the current page.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	key := v.key
	v.mu.Unlock()
	return v.session.cache.Mutate(ctx, key)
}

// Close stops the filter timer and the subscription. No state is delivered
// after Close returns.
func (v *ListView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	sub := v.sub
	v.mu.Unlock()

	v.filter.Close()
	sub.Close()
	v.wg.Wait()
	close(v.updates)
}

func (v *ListView) applyEmployee(text string) {
	text = strings.TrimSpace(text)
	v.update(func(p *registro.Params) {
		if p.Employee == text {
			return
		}
		p.Employee = text
		p.Page = 0
	})
}

func (v *ListView) update(change func(*registro.Params)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	change(&v.params)
	v.resubscribeLocked()
}

func (v *ListView) resubscribeLocked() {
	key := registro.ListKey(v.params)
	if v.sub != nil && key == v.key {
		return
	}
	old := v.sub
	sub := v.session.cache.Subscribe(key, v.session.listFetcher(v.params))
	v.key, v.sub = key, sub
	v.wg.Add(1)
	go v.forward(sub, v.params)
	if old != nil {
		old.Close()
	}
}

func (v *ListView) forward(sub *fetchcache.Subscription, p registro.Params) {
	defer v.wg.Done()
	for st := range sub.Updates() {
		v.publish(sub, listState(p, st))
	}
}

func (v *ListView) publish(sub *fetchcache.Subscription, st ListState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	// results of a previous parameter set are dropped
	if v.closed || v.sub != sub {
		return
	}
	select {
	case <-v.updates:
	default:
	}
	v.updates <- st
}
