// Package fetchcache is a keyed data cache that coordinates fetches:
// one request in flight per key, stale-while-revalidate reads, bounded
// retries and explicit revalidation after writes.
package fetchcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrClosed = errors.New("fetchcache: store closed")

// Fetcher loads the value for one key. The context is cancelled when the
// store is closed.
type Fetcher func(ctx context.Context) (any, error)

type Options struct {
	// RetryCount is the number of retries after a failed attempt.
	RetryCount    int
	RetryInterval time.Duration
	// DedupeInterval suppresses subscribe-triggered refetches of a key that
	// completed a fetch more recently than this.
	DedupeInterval time.Duration
	// ShouldRetry reports whether a failed attempt is worth repeating. Nil
	// retries every error.
	ShouldRetry func(error) bool
}

func DefaultOptions() Options {
	return Options{
		RetryCount:     3,
		RetryInterval:  time.Second,
		DedupeInterval: 2 * time.Second,
	}
}

// State is a snapshot of one key.
type State struct {
	Data         any
	Err          error
	IsLoading    bool
	IsValidating bool
	UpdatedAt    time.Time
}

type entry struct {
	fetch     Fetcher
	data      any
	hasData   bool
	err       error
	inflight  int
	issued    uint64
	applied   uint64
	updatedAt time.Time
	fetchedAt time.Time
	subs      map[*Subscription]struct{}
}

func (e *entry) state() State {
	return State{
		Data:         e.data,
		Err:          e.err,
		IsLoading:    !e.hasData && e.inflight > 0,
		IsValidating: e.inflight > 0,
		UpdatedAt:    e.updatedAt,
	}
}

type result struct {
	data any
	err  error
}

type Store struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	wg     sync.WaitGroup

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

func New(opts Options) *Store {
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		entries: map[string]*entry{},
	}
}

// Get returns the current state of key without blocking. A fetch starts
// when the key has no data and none is in flight.
func (s *Store) Get(key string, fetch Fetcher) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{Err: ErrClosed}
	}
	e := s.ensure(key, fetch)
	if !e.hasData && e.inflight == 0 && s.expired(e) {
		s.start(key, e, false)
	}
	return e.state()
}

// Load returns cached data for key, or waits for the in-flight fetch,
// starting one if needed.
func (s *Store) Load(ctx context.Context, key string, fetch Fetcher) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e := s.ensure(key, fetch)
	if e.hasData {
		data := e.data
		s.mu.Unlock()
		return data, nil
	}
	done := s.start(key, e, false)
	s.mu.Unlock()
	return wait(ctx, done)
}

// Subscribe registers interest in key. All subscribers of a key share its
// entry and are notified together.
func (s *Store) Subscribe(key string, fetch Fetcher) *Subscription {
	sub := &Subscription{store: s, key: key, updates: make(chan State, 1)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.closed = true
		close(sub.updates)
		return sub
	}
	e := s.ensure(key, fetch)
	sub.entry = e
	e.subs[sub] = struct{}{}
	if e.inflight == 0 && s.expired(e) {
		s.start(key, e, false)
	}
	sub.deliver(e.state())
	return sub
}

// Mutate runs a fresh fetch cycle for key, never joining an older request,
// and waits for it. Unknown keys are a no-op.
func (s *Store) Mutate(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	done := s.start(key, e, true)
	s.mu.Unlock()
	_, err := wait(ctx, done)
	return err
}

// MutateMatching revalidates every subscribed key accepted by match
// concurrently. Matching keys without subscribers are evicted so their
// next read refetches.
func (s *Store) MutateMatching(ctx context.Context, match func(key string) bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	var live []string
	for key, e := range s.entries {
		if !match(key) {
			continue
		}
		if len(e.subs) == 0 {
			s.evict(key)
			continue
		}
		live = append(live, key)
	}
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range live {
		g.Go(func() error {
			if err := s.Mutate(ctx, key); err != nil {
				return fmt.Errorf("revalidate %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Keys lists the cached keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for key := range s.entries {
		out = append(out, key)
	}
	return out
}

// Clear drops all cached data. Results of fetches already in flight are
// discarded. Subscribers stay registered and see an empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if len(e.subs) == 0 {
			s.evict(key)
			continue
		}
		s.group.Forget(key)
		e.data, e.hasData, e.err = nil, false, nil
		e.updatedAt, e.fetchedAt = time.Time{}, time.Time{}
		e.applied = e.issued
		s.notify(e)
	}
}

// Close cancels background fetches, closes every subscription and waits
// for in-flight work to finish.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, e := range s.entries {
		for sub := range e.subs {
			sub.closeLocked()
		}
	}
	s.entries = map[string]*entry{}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// ensure returns the entry for key, creating it. Callers hold s.mu.
func (s *Store) ensure(key string, fetch Fetcher) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{subs: map[*Subscription]struct{}{}}
		s.entries[key] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}
	return e
}

func (s *Store) evict(key string) {
	delete(s.entries, key)
	s.group.Forget(key)
}

func (s *Store) expired(e *entry) bool {
	return e.fetchedAt.IsZero() || time.Since(e.fetchedAt) >= s.opts.DedupeInterval
}

// start joins or begins the fetch cycle for key. force detaches any older
// in-flight call first. Callers hold s.mu, so deciding to join and a cycle
// publishing its data cannot interleave.
func (s *Store) start(key string, e *entry, force bool) <-chan result {
	if force {
		s.group.Forget(key)
	}
	call := s.group.DoChan(key, func() (any, error) {
		return s.cycle(key, e)
	})

	done := make(chan result, 1)
	e.inflight++
	s.notify(e)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := <-call

		s.mu.Lock()
		e.inflight--
		if s.entries[key] == e {
			s.notify(e)
		}
		s.mu.Unlock()
		done <- result{data: r.Val, err: r.Err}
	}()
	return done
}

func (s *Store) cycle(key string, e *entry) (any, error) {
	s.mu.Lock()
	e.issued++
	seq := e.issued
	fetch := e.fetch
	s.mu.Unlock()

	if fetch == nil {
		return nil, fmt.Errorf("fetchcache: no fetcher for %s", key)
	}
	data, err := s.attempt(key, fetch)

	s.mu.Lock()
	defer s.mu.Unlock()
	// an older cycle finishing late never overwrites a newer result
	if seq > e.applied {
		e.applied = seq
		e.fetchedAt = time.Now()
		if err == nil {
			e.data, e.hasData, e.err = data, true, nil
			e.updatedAt = e.fetchedAt
		} else {
			e.err = err
		}
	}
	return data, err
}

func (s *Store) attempt(key string, fetch Fetcher) (any, error) {
	var err error
	for i := 0; i <= s.opts.RetryCount; i++ {
		if i > 0 {
			timer := time.NewTimer(s.opts.RetryInterval)
			select {
			case <-s.ctx.Done():
				timer.Stop()
				return nil, s.ctx.Err()
			case <-timer.C:
			}
		}
		var data any
		data, err = safeFetch(s.ctx, fetch)
		if err == nil {
			return data, nil
		}
		if s.ctx.Err() != nil || (s.opts.ShouldRetry != nil && !s.opts.ShouldRetry(err)) {
			break
		}
		slog.Debug("fetch attempt failed", "key", key, "attempt", i+1, "err", err)
	}
	if s.ctx.Err() == nil {
		slog.Warn("fetch failed", "key", key, "err", err)
	}
	return nil, err
}

func safeFetch(ctx context.Context, fetch Fetcher) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fetchcache: fetcher panic: %v", rec)
		}
	}()
	return fetch(ctx)
}

// notify pushes the current state to every subscriber. Callers hold s.mu.
func (s *Store) notify(e *entry) {
	st := e.state()
	for sub := range e.subs {
		sub.deliver(st)
	}
}

func wait(ctx context.Context, done <-chan result) (any, error) {
	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
