package registro

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store     StoreAPI
	validator *Validator
	percent   float64
	now       func() time.Time
}

func NewService(store StoreAPI, validator *Validator, calculatedPercent float64) *Service {
	return &Service{store: store, validator: validator, percent: calculatedPercent, now: time.Now}
}

func (s *Service) Validator() *Validator {
	return s.validator
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// List normalizes pagination and rejects unknown sort options before
// querying the store.
func (s *Service) List(ctx context.Context, p Params) (ListResponse, error) {
	p, err := NormalizeParams(p)
	if err != nil {
		return ListResponse{}, err
	}
	records, total, err := s.store.List(ctx, p)
	if err != nil {
		return ListResponse{}, err
	}
	if records == nil {
		records = []Record{}
	}
	return ListResponse{
		Data: records,
		Pagination: PaginationMeta{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: TotalPages(total, p.Limit),
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	if errs := s.validator.ValidateCreate(in); errs != nil {
		return Record{}, errs
	}
	rec := Record{
		ID:            uuid.NewString(),
		Employee:      strings.TrimSpace(in.Employee),
		Salary:        in.Salary,
		AdmissionDate: in.AdmissionDate,
		CreatedAt:     s.now().UTC(),
	}
	if err := Derive(&rec, s.percent); err != nil {
		return Record{}, err
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	slog.Info("registro created", "id", rec.ID)
	return rec, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	if in.IsEmpty() {
		return Record{}, ErrEmptyUpdate
	}
	if errs := s.validator.ValidateUpdate(in); errs != nil {
		return Record{}, errs
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if in.Employee != nil {
		rec.Employee = strings.TrimSpace(*in.Employee)
	}
	if in.Salary != nil {
		rec.Salary = *in.Salary
	}
	if in.AdmissionDate != nil {
		rec.AdmissionDate = *in.AdmissionDate
	}
	if err := Derive(&rec, s.percent); err != nil {
		return Record{}, err
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return Record{}, err
	}
	slog.Info("registro updated", "id", rec.ID)
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("registro deleted", "id", id)
	return nil
}

// Seed inserts records as given, recomputing their derived fields.
func (s *Service) Seed(ctx context.Context, records []Record) error {
	for _, rec := range records {
		if err := Derive(&rec, s.percent); err != nil {
			return err
		}
		if err := s.store.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeParams applies pagination defaults and validates the sort.
func NormalizeParams(p Params) (Params, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Page > MaxOffset/p.Limit {
		p.Page = MaxOffset / p.Limit
	}
	if p.Field != "" && !p.Field.Valid() {
		return p, ErrInvalidSortField
	}
	if p.Direction != "" && !p.Direction.Valid() {
		return p, ErrInvalidSortOrder
	}
	if p.Field != "" && p.Direction == "" {
		p.Direction = SortAsc
	}
	p.Employee = strings.TrimSpace(p.Employee)
	return p, nil
}
