// Package reconcile keeps client side ordered lists responsive while
// reorders persist in the background. A move is applied to the local cache
// at once, persisted asynchronously, and the whole data set is refetched
// once the store accepts it.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/ordering"
)

var (
	ErrClosed         = errors.New("reconciler closed")
	ErrScopeNotLoaded = errors.New("scope not loaded")
)

const DefaultPersistTimeout = 10 * time.Second

// State of one scope's local copy.
type State int

const (
	Synced State = iota
	OptimisticallyMoved
	PersistPending
	Diverged
)

func (s State) String() string {
	switch s {
	case Synced:
		return "synced"
	case OptimisticallyMoved:
		return "optimistically-moved"
	case PersistPending:
		return "persist-pending"
	case Diverged:
		return "diverged"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FailurePolicy decides what happens to local state after a failed persist.
type FailurePolicy int

const (
	// LeaveDiverged keeps the optimistic order until the next refresh.
	LeaveDiverged FailurePolicy = iota
	// RefetchOnFailure refetches the authoritative data set right away.
	RefetchOnFailure
)

// Store is the authoritative side, usually *client.Client.
type Store interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Reorder(ctx context.Context, kind models.ScopeKind, updates []models.OrderUpdate) error
}

type Option func(*Reconciler)

func WithCache(cache Cache) Option {
	return func(r *Reconciler) {
		r.cache = cache
	}
}

func WithFailurePolicy(policy FailurePolicy) Option {
	return func(r *Reconciler) {
		r.policy = policy
	}
}

// WithOnPersistError registers a hook called after every failed persist.
func WithOnPersistError(hook func(Scope, error)) Option {
	return func(r *Reconciler) {
		r.onPersistError = hook
	}
}

func WithPersistTimeout(timeout time.Duration) Option {
	return func(r *Reconciler) {
		r.persistTimeout = timeout
	}
}

// Pending tracks one asynchronous persist.
type Pending struct {
	done chan struct{}
	err  error
}

func completed(err error) *Pending {
	p := &Pending{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// Done is closed once the persist and any follow-up refetch finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err is the persist error; only meaningful after Done is closed.
func (p *Pending) Err() error {
	<-p.done
	return p.err
}

// Wait blocks until the persist finished or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track is the unsettled side of one scope. ids is the optimistic order,
// restored over every refetch while persists are outstanding.
type track struct {
	state    State
	ids      []int64
	inflight int
	seq      uint64
	tail     *Pending
}

type Reconciler struct {
	store          Store
	cache          Cache
	policy         FailurePolicy
	onPersistError func(Scope, error)
	persistTimeout time.Duration
	logger         zerolog.Logger

	mu       sync.Mutex
	tracks   map[Scope]*track
	snapshot *models.Dashboard
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store Store, opts ...Option) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		store:          store,
		cache:          NewSnapshotCache(),
		policy:         LeaveDiverged,
		persistTimeout: DefaultPersistTimeout,
		logger:         log.With().Str("component", "reconciler").Logger(),
		tracks:         make(map[Scope]*track),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches the authoritative data set and replaces all local state.
func (r *Reconciler) Load(ctx context.Context) error {
	return r.Refresh(ctx)
}

// Refresh refetches the data set. Scopes with a persist outstanding keep
// their state and their optimistic order; everything else becomes Synced.
func (r *Reconciler) Refresh(ctx context.Context) error {
	dashboard, err := r.store.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("refreshing dashboard: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Replace(dashboard)
	r.snapshot = dashboard
	for scope, t := range r.tracks {
		if t.inflight == 0 {
			delete(r.tracks, scope)
			continue
		}
		r.cache.Put(scope, t.ids)
	}
	return nil
}

// Get returns the local order of scope.
func (r *Reconciler) Get(scope Scope) ([]int64, bool) {
	return r.cache.Get(scope)
}

// Snapshot returns the last authoritative data set, nil before Load.
func (r *Reconciler) Snapshot() *models.Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

// State returns the state of scope. Scopes never moved are Synced.
func (r *Reconciler) State(scope Scope) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tracks[scope]; ok {
		return t.state
	}
	return Synced
}

// Move reorders scope locally at once and persists the restamp in the
// background. Persists of one scope run one at a time in move order, so the
// store always ends on the latest local order. A no-op move returns an
// already completed Pending and writes nothing.
func (r *Reconciler) Move(scope Scope, from, to int) (*Pending, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}

	ids, ok := r.cache.Get(scope)
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrScopeNotLoaded, scope)
	}
	updates, err := ordering.Move(ids, from, to)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if updates == nil {
		r.mu.Unlock()
		return completed(nil), nil
	}

	moved, err := ordering.MoveSlice(ids, from, to)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.cache.Put(scope, moved)

	t, ok := r.tracks[scope]
	if !ok {
		t = &track{}
		r.tracks[scope] = t
	}
	pending := &Pending{done: make(chan struct{})}
	prev := t.tail
	t.seq++
	t.inflight++
	t.ids = moved
	t.state = OptimisticallyMoved
	t.tail = pending
	seq := t.seq
	r.wg.Add(1)
	r.mu.Unlock()

	go r.persist(scope, seq, updates, prev, pending)
	return pending, nil
}

func (r *Reconciler) persist(scope Scope, seq uint64, updates []models.OrderUpdate, prev, pending *Pending) {
	defer r.wg.Done()
	defer close(pending.done)

	if prev != nil {
		select {
		case <-prev.done:
		case <-r.ctx.Done():
			pending.err = r.ctx.Err()
			r.fail(r.ctx, scope, pending.err)
			return
		}
	}
	r.markPending(scope, seq)

	ctx, cancel := context.WithTimeout(r.ctx, r.persistTimeout)
	defer cancel()

	if err := r.store.Reorder(ctx, scope.Kind, updates); err != nil {
		pending.err = err
		r.fail(ctx, scope, err)
		return
	}

	if !r.settle(scope) {
		// a later move is queued and refetches when it lands
		return
	}
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error().Err(err).Str("scope", scope.String()).Msg("refetch after reorder failed")
		r.mu.Lock()
		if _, ok := r.tracks[scope]; !ok {
			r.tracks[scope] = &track{state: Diverged}
		}
		r.mu.Unlock()
	}
}

// markPending flags scope as persisting unless a later move already
// replaced the order being written.
func (r *Reconciler) markPending(scope Scope, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tracks[scope]; ok && t.seq == seq {
		t.state = PersistPending
	}
}

// settle records one successful persist and reports whether it was the last
// one outstanding for scope, in which case the scope is Synced.
func (r *Reconciler) settle(scope Scope) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[scope]
	if !ok {
		return true
	}
	t.inflight--
	if t.inflight > 0 {
		return false
	}
	delete(r.tracks, scope)
	return true
}

func (r *Reconciler) fail(ctx context.Context, scope Scope, err error) {
	r.logger.Error().Err(err).Str("scope", scope.String()).Msg("reorder persist failed")

	r.mu.Lock()
	outstanding := 0
	if t, ok := r.tracks[scope]; ok {
		t.inflight--
		t.state = Diverged
		outstanding = t.inflight
	}
	r.mu.Unlock()

	if r.onPersistError != nil {
		r.onPersistError(scope, err)
	}

	if r.policy != RefetchOnFailure || outstanding > 0 {
		return
	}
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error().Err(err).Str("scope", scope.String()).Msg("refetch after failed reorder failed")
	}
}

// Close cancels in-flight persists and waits for them to finish.
func (r *Reconciler) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
