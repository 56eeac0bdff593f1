package reconcile

import (
	"fmt"
	"sync"

	"github.com/tutusiji/lantu-next/models"
)

// Scope names one independently ordered list: all layers, the categories of
// one layer or the tech items of one category.
type Scope struct {
	Kind     models.ScopeKind
	ParentID int64
}

func LayersScope() Scope {
	return Scope{Kind: models.ScopeLayer}
}

func CategoriesOf(layerID int64) Scope {
	return Scope{Kind: models.ScopeCategory, ParentID: layerID}
}

func ItemsOf(categoryID int64) Scope {
	return Scope{Kind: models.ScopeTechItem, ParentID: categoryID}
}

func (s Scope) String() string {
	if s.Kind == models.ScopeLayer {
		return "layers"
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.ParentID)
}

// Cache holds the client side ordered ids of every scope.
type Cache interface {
	Get(scope Scope) ([]int64, bool)
	Put(scope Scope, ids []int64)
	Invalidate(scope Scope)
	Replace(dashboard *models.Dashboard)
}

// SnapshotCache is a Cache rebuilt wholesale from a dashboard snapshot.
// Returned slices are copies.
type SnapshotCache struct {
	mu     sync.RWMutex
	scopes map[Scope][]int64
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{scopes: make(map[Scope][]int64)}
}

func (c *SnapshotCache) Get(scope Scope) ([]int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, ok := c.scopes[scope]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), ids...), true
}

func (c *SnapshotCache) Put(scope Scope, ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scopes[scope] = append([]int64{}, ids...)
}

func (c *SnapshotCache) Invalidate(scope Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scopes, scope)
}

// Replace drops every scope and rebuilds them from dashboard. The dashboard
// lists are expected in display order, as the API returns them.
func (c *SnapshotCache) Replace(dashboard *models.Dashboard) {
	scopes := make(map[Scope][]int64)

	layers := make([]int64, 0, len(dashboard.Layers))
	for _, layer := range dashboard.Layers {
		layers = append(layers, layer.ID)
		scopes[CategoriesOf(layer.ID)] = []int64{}
	}
	scopes[LayersScope()] = layers

	for _, category := range dashboard.Categories {
		scope := CategoriesOf(category.LayerID)
		scopes[scope] = append(scopes[scope], category.ID)
		if _, ok := scopes[ItemsOf(category.ID)]; !ok {
			scopes[ItemsOf(category.ID)] = []int64{}
		}
	}

	for _, item := range dashboard.TechItems {
		scope := ItemsOf(item.CategoryID)
		scopes[scope] = append(scopes[scope], item.ID)
	}

	c.mu.Lock()
	c.scopes = scopes
	c.mu.Unlock()
}
