package registro

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps records in process. Used when no DATABASE_URL is set
// and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) List(_ context.Context, p Params) ([]Record, int, error) {
	s.mu.RLock()
	matched := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if matches(rec, p.Filters) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	sortRecords(matched, p.Sort)

	total := len(matched)
	start := p.Offset()
	if start >= total {
		return []Record{}, total, nil
	}
	end := min(start+p.Limit, total)
	return matched[start:end], total, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Insert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return ErrNotFound
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func matches(rec Record, f Filters) bool {
	if f.Employee != "" && !strings.Contains(strings.ToLower(rec.Employee), strings.ToLower(f.Employee)) {
		return false
	}
	if !inRange(rec.Salary, f.StartSalary, f.EndSalary) {
		return false
	}
	if !inRange(rec.CalculatedSalary, f.StartSalaryCalculated, f.EndSalaryCalculated) {
		return false
	}
	// YYYY-MM-DD compares correctly as text.
	if f.StartDate != "" && rec.AdmissionDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && rec.AdmissionDate > f.EndDate {
		return false
	}
	return true
}

func inRange(value float64, start, end *float64) bool {
	if start != nil && value < *start {
		return false
	}
	if end != nil && value > *end {
		return false
	}
	return true
}

func sortRecords(records []Record, s Sort) {
	field := s.Field
	desc := s.Direction == SortDesc
	if field == "" {
		field = SortByCreatedAt
		desc = true
	}
	compare := func(a, b Record) int {
		switch field {
		case SortByEmployee:
			return strings.Compare(strings.ToLower(a.Employee), strings.ToLower(b.Employee))
		case SortBySalary:
			return compareFloat(a.Salary, b.Salary)
		case SortByCalculatedSalary:
			return compareFloat(a.CalculatedSalary, b.CalculatedSalary)
		case SortByAdmissionDate:
			return strings.Compare(a.AdmissionDate, b.AdmissionDate)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		c := compare(records[i], records[j])
		if c == 0 {
			return records[i].ID < records[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
