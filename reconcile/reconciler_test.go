package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore applies reorders to an in-memory dashboard.
type fakeStore struct {
	mu         sync.Mutex
	dash       models.Dashboard
	reorderErr error
	gate       chan struct{}
	reorders   [][]models.OrderUpdate
	fetches    int

	// hold, when set, picks a gate per Reorder call; nil means no wait.
	hold  func(kind models.ScopeKind, call int) chan struct{}
	calls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{dash: models.Dashboard{
		Layers: []models.Layer{
			{ID: 1, Name: "Frontend", DisplayOrder: 1},
			{ID: 2, Name: "Backend", DisplayOrder: 2},
		},
		Categories: []models.Category{
			{ID: 11, Name: "C1", LayerID: 1, DisplayOrder: 1},
			{ID: 12, Name: "C2", LayerID: 1, DisplayOrder: 2},
			{ID: 13, Name: "C3", LayerID: 1, DisplayOrder: 3},
		},
		TechItems: []models.TechItem{
			{ID: 101, Name: "React", CategoryID: 11, DisplayOrder: 1},
			{ID: 102, Name: "Vue", CategoryID: 11, DisplayOrder: 2},
		},
	}}
}

func (s *fakeStore) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++

	dash := models.Dashboard{
		Layers:     append([]models.Layer(nil), s.dash.Layers...),
		Categories: append([]models.Category(nil), s.dash.Categories...),
		TechItems:  append([]models.TechItem(nil), s.dash.TechItems...),
	}
	sort.SliceStable(dash.Layers, func(i, j int) bool { return dash.Layers[i].DisplayOrder < dash.Layers[j].DisplayOrder })
	sort.SliceStable(dash.Categories, func(i, j int) bool {
		a, b := dash.Categories[i], dash.Categories[j]
		if a.LayerID != b.LayerID {
			return a.LayerID < b.LayerID
		}
		return a.DisplayOrder < b.DisplayOrder
	})
	sort.SliceStable(dash.TechItems, func(i, j int) bool {
		a, b := dash.TechItems[i], dash.TechItems[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		return a.DisplayOrder < b.DisplayOrder
	})
	return &dash, nil
}

func (s *fakeStore) Reorder(ctx context.Context, kind models.ScopeKind, updates []models.OrderUpdate) error {
	gate := s.gate
	if s.hold != nil {
		s.mu.Lock()
		call := s.calls
		s.calls++
		s.mu.Unlock()
		gate = s.hold(kind, call)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorders = append(s.reorders, updates)
	if s.reorderErr != nil {
		return s.reorderErr
	}

	orders := make(map[int64]int, len(updates))
	for _, u := range updates {
		orders[u.ID] = u.DisplayOrder
	}
	switch kind {
	case models.ScopeLayer:
		for i := range s.dash.Layers {
			if o, ok := orders[s.dash.Layers[i].ID]; ok {
				s.dash.Layers[i].DisplayOrder = o
			}
		}
	case models.ScopeCategory:
		for i := range s.dash.Categories {
			if o, ok := orders[s.dash.Categories[i].ID]; ok {
				s.dash.Categories[i].DisplayOrder = o
			}
		}
	case models.ScopeTechItem:
		for i := range s.dash.TechItems {
			if o, ok := orders[s.dash.TechItems[i].ID]; ok {
				s.dash.TechItems[i].DisplayOrder = o
			}
		}
	}
	return nil
}

func (s *fakeStore) counts() (reorders, fetches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reorders), s.fetches
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newLoaded(t *testing.T, store *fakeStore, opts ...Option) *Reconciler {
	t.Helper()
	r := New(store, opts...)
	t.Cleanup(r.Close)
	require.NoError(t, r.Load(context.Background()))
	return r
}

func TestLoad(t *testing.T) {
	r := newLoaded(t, newFakeStore())

	layers, ok := r.Get(LayersScope())
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, layers)

	categories, ok := r.Get(CategoriesOf(1))
	require.True(t, ok)
	assert.Equal(t, []int64{11, 12, 13}, categories)

	empty, ok := r.Get(CategoriesOf(2))
	require.True(t, ok)
	assert.Empty(t, empty)

	_, ok = r.Get(ItemsOf(999))
	assert.False(t, ok)

	assert.Equal(t, Synced, r.State(CategoriesOf(1)))
	assert.NotNil(t, r.Snapshot())
}

func TestMove_OptimisticThenSynced(t *testing.T) {
	store := newFakeStore()
	store.gate = make(chan struct{})
	r := newLoaded(t, store)
	scope := CategoriesOf(1)

	pending, err := r.Move(scope, 2, 0)
	require.NoError(t, err)

	// visible before the store has answered
	ids, _ := r.Get(scope)
	assert.Equal(t, []int64{13, 11, 12}, ids)
	assert.Contains(t, []State{OptimisticallyMoved, PersistPending}, r.State(scope))

	close(store.gate)
	require.NoError(t, pending.Wait(waitCtx(t)))

	assert.Equal(t, Synced, r.State(scope))
	assert.Equal(t, []models.OrderUpdate{
		{ID: 13, DisplayOrder: 1},
		{ID: 11, DisplayOrder: 2},
		{ID: 12, DisplayOrder: 3},
	}, store.reorders[0])

	ids, _ = r.Get(scope)
	assert.Equal(t, []int64{13, 11, 12}, ids)

	_, fetches := store.counts()
	assert.Equal(t, 2, fetches, "success refetches the data set")
}

func TestMove_FailureLeavesDiverged(t *testing.T) {
	store := newFakeStore()
	store.reorderErr = errs.NewTransactionFailedError("reorder category", errors.New("disk full"))

	var (
		hookMu    sync.Mutex
		hookScope Scope
		hookErr   error
	)
	r := newLoaded(t, store, WithOnPersistError(func(s Scope, err error) {
		hookMu.Lock()
		defer hookMu.Unlock()
		hookScope, hookErr = s, err
	}))
	scope := ItemsOf(11)

	pending, err := r.Move(scope, 0, 1)
	require.NoError(t, err)

	err = pending.Wait(waitCtx(t))
	require.Error(t, err)
	assert.True(t, errs.IsTransactionFailedError(err))
	assert.Equal(t, Diverged, r.State(scope))

	hookMu.Lock()
	assert.Equal(t, scope, hookScope)
	assert.ErrorIs(t, hookErr, errs.ErrTransactionFailed)
	hookMu.Unlock()

	ids, _ := r.Get(scope)
	assert.Equal(t, []int64{102, 101}, ids, "optimistic order is kept")
	_, fetches := store.counts()
	assert.Equal(t, 1, fetches)

	// other scopes keep working
	assert.Equal(t, Synced, r.State(LayersScope()))

	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, Synced, r.State(scope))
	ids, _ = r.Get(scope)
	assert.Equal(t, []int64{101, 102}, ids)
}

func TestMove_RefetchOnFailure(t *testing.T) {
	store := newFakeStore()
	store.reorderErr = errors.New("connection reset")
	r := newLoaded(t, store, WithFailurePolicy(RefetchOnFailure))
	scope := LayersScope()

	pending, err := r.Move(scope, 1, 0)
	require.NoError(t, err)
	require.Error(t, pending.Wait(waitCtx(t)))

	assert.Equal(t, Synced, r.State(scope))
	ids, _ := r.Get(scope)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestMove_SameScopePersistsInOrder(t *testing.T) {
	store := newFakeStore()
	first, second := make(chan struct{}), make(chan struct{})
	store.hold = func(_ models.ScopeKind, call int) chan struct{} {
		if call == 0 {
			return first
		}
		return second
	}
	r := newLoaded(t, store)
	scope := CategoriesOf(1)

	p1, err := r.Move(scope, 2, 0)
	require.NoError(t, err)
	p2, err := r.Move(scope, 2, 0)
	require.NoError(t, err)

	ids, _ := r.Get(scope)
	require.Equal(t, []int64{12, 13, 11}, ids)

	// releasing the later gate first must not let it overtake
	close(second)
	select {
	case <-p2.Done():
		t.Fatal("second persist finished before the first")
	case <-time.After(50 * time.Millisecond):
	}
	assert.NotEqual(t, Synced, r.State(scope))
	ids, _ = r.Get(scope)
	assert.Equal(t, []int64{12, 13, 11}, ids)

	close(first)
	require.NoError(t, p1.Wait(waitCtx(t)))
	require.NoError(t, p2.Wait(waitCtx(t)))

	assert.Equal(t, Synced, r.State(scope))
	ids, _ = r.Get(scope)
	assert.Equal(t, []int64{12, 13, 11}, ids, "store ends on the last gesture")

	reorders, fetches := store.counts()
	assert.Equal(t, 2, reorders)
	assert.Equal(t, 2, fetches, "only the last persist refetches")
	assert.Equal(t, []models.OrderUpdate{
		{ID: 12, DisplayOrder: 1},
		{ID: 13, DisplayOrder: 2},
		{ID: 11, DisplayOrder: 3},
	}, store.reorders[1])
}

func TestRefresh_KeepsOptimisticOrderOfPendingScopes(t *testing.T) {
	store := newFakeStore()
	categoriesGate := make(chan struct{})
	store.hold = func(kind models.ScopeKind, _ int) chan struct{} {
		if kind == models.ScopeCategory {
			return categoriesGate
		}
		return nil
	}
	r := newLoaded(t, store)

	categoriesMove, err := r.Move(CategoriesOf(1), 2, 0)
	require.NoError(t, err)
	layersMove, err := r.Move(LayersScope(), 1, 0)
	require.NoError(t, err)

	// the layer persist refetches while the category persist is held
	require.NoError(t, layersMove.Wait(waitCtx(t)))
	layers, _ := r.Get(LayersScope())
	assert.Equal(t, []int64{2, 1}, layers)
	assert.Equal(t, Synced, r.State(LayersScope()))

	categories, _ := r.Get(CategoriesOf(1))
	assert.Equal(t, []int64{13, 11, 12}, categories)
	assert.Contains(t, []State{OptimisticallyMoved, PersistPending}, r.State(CategoriesOf(1)))

	close(categoriesGate)
	require.NoError(t, categoriesMove.Wait(waitCtx(t)))
	assert.Equal(t, Synced, r.State(CategoriesOf(1)))
	categories, _ = r.Get(CategoriesOf(1))
	assert.Equal(t, []int64{13, 11, 12}, categories)
}

func TestMove_NoOpWritesNothing(t *testing.T) {
	store := newFakeStore()
	r := newLoaded(t, store)

	pending, err := r.Move(CategoriesOf(1), 1, 1)
	require.NoError(t, err)
	require.NoError(t, pending.Wait(waitCtx(t)))

	reorders, _ := store.counts()
	assert.Zero(t, reorders)
	assert.Equal(t, Synced, r.State(CategoriesOf(1)))
}

func TestMove_Rejects(t *testing.T) {
	store := newFakeStore()
	r := newLoaded(t, store)

	_, err := r.Move(CategoriesOf(1), 3, 0)
	assert.True(t, errs.IsInvalidIndexError(err))
	ids, _ := r.Get(CategoriesOf(1))
	assert.Equal(t, []int64{11, 12, 13}, ids)

	_, err = r.Move(ItemsOf(999), 0, 1)
	assert.ErrorIs(t, err, ErrScopeNotLoaded)

	reorders, _ := store.counts()
	assert.Zero(t, reorders)
}

func TestClose_CancelsInFlight(t *testing.T) {
	store := newFakeStore()
	store.gate = make(chan struct{})
	r := New(store, WithPersistTimeout(time.Minute))
	require.NoError(t, r.Load(context.Background()))

	pending, err := r.Move(LayersScope(), 0, 1)
	require.NoError(t, err)
	queued, err := r.Move(LayersScope(), 0, 1)
	require.NoError(t, err)

	r.Close()
	assert.ErrorIs(t, pending.Err(), context.Canceled)
	assert.ErrorIs(t, queued.Err(), context.Canceled)
	assert.Equal(t, Diverged, r.State(LayersScope()))

	_, err = r.Move(LayersScope(), 0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSnapshotCache(t *testing.T) {
	c := NewSnapshotCache()
	c.Put(ItemsOf(1), []int64{3, 1, 2})

	ids, ok := c.Get(ItemsOf(1))
	require.True(t, ok)
	ids[0] = 99

	again, _ := c.Get(ItemsOf(1))
	assert.Equal(t, []int64{3, 1, 2}, again)

	c.Invalidate(ItemsOf(1))
	_, ok = c.Get(ItemsOf(1))
	assert.False(t, ok)

	c.Replace(&models.Dashboard{Layers: []models.Layer{{ID: 5}}})
	layers, _ := c.Get(LayersScope())
	assert.Equal(t, []int64{5}, layers)
	_, ok = c.Get(CategoriesOf(5))
	assert.True(t, ok)
}

func TestWithCache_SharesSnapshot(t *testing.T) {
	cache := NewSnapshotCache()
	r := newLoaded(t, newFakeStore(), WithCache(cache))

	fromReconciler, ok := r.Get(LayersScope())
	require.True(t, ok)
	fromCache, ok := cache.Get(LayersScope())
	require.True(t, ok)
	assert.Equal(t, fromReconciler, fromCache)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "persist-pending", PersistPending.String())
	assert.Equal(t, "diverged", Diverged.String())
	assert.Equal(t, "layers", LayersScope().String())
	assert.Equal(t, "tech-item:4", ItemsOf(4).String())
}
