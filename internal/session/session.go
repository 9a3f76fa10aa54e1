// Package session holds the view models a front-end drives: the record
// list, the detail/edit form of one record and the creation form. All
// reads go through a shared fetchcache.Store; successful writes revalidate
// the affected keys before returning.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vera/internal/domain/registro"
	"vera/internal/platform/fetchcache"
)

// API is the registros backend as seen by the view models.
type API interface {
	ListRegistros(ctx context.Context, p registro.Params) (registro.ListResponse, error)
	GetRegistro(ctx context.Context, id string) (registro.Record, error)
	CreateRegistro(ctx context.Context, in registro.CreateInput) (registro.Record, error)
	UpdateRegistro(ctx context.Context, id string, in registro.UpdateInput) (registro.Record, error)
	DeleteRegistro(ctx context.Context, id string) error
}

type Options struct {
	PageSize int
	Debounce time.Duration
}

func DefaultOptions() Options {
	return Options{PageSize: registro.DefaultPageSize, Debounce: 500 * time.Millisecond}
}

type Session struct {
	api       API
	cache     *fetchcache.Store
	validator *registro.Validator
	opts      Options
}

func New(api API, cache *fetchcache.Store, validator *registro.Validator, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = registro.DefaultPageSize
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &Session{api: api, cache: cache, validator: validator, opts: opts}
}

func (s *Session) Validator() *registro.Validator {
	return s.validator
}

func (s *Session) listFetcher(p registro.Params) fetchcache.Fetcher {
	return func(ctx context.Context) (any, error) {
		return s.api.ListRegistros(ctx, p)
	}
}

func (s *Session) detailFetcher(id string) fetchcache.Fetcher {
	return func(ctx context.Context) (any, error) {
		return s.api.GetRegistro(ctx, id)
	}
}

// invalidate revalidates every list key and, when id is set, the detail
// key of that record.
func (s *Session) invalidate(ctx context.Context, id string) {
	detail := ""
	if id != "" {
		detail = registro.DetailKey(id)
	}
	err := s.cache.MutateMatching(ctx, func(key string) bool {
		return registro.IsListKey(key) || (detail != "" && key == detail)
	})
	if err != nil {
		slog.Warn("revalidate after write failed", "id", id, "err", err)
	}
}

// fieldErrors extracts field errors, whether found locally or reported by
// the server.
func fieldErrors(err error) registro.ValidationErrors {
	var verrs registro.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
