// Package ordering implements the drag-reorder protocol shared by layers,
// categories and tech items: move one element of a scope from index from to
// index to, then restamp every element with its 1-based position.
package ordering

import (
	"fmt"
	"sort"

	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

// MoveSlice returns a new slice with the element at from moved to to. The
// input is not modified. An out-of-range index is rejected, never clamped.
func MoveSlice[T any](items []T, from, to int) ([]T, error) {
	if err := checkIndexes(len(items), from, to); err != nil {
		return nil, err
	}

	out := make([]T, len(items))
	copy(out, items)
	if from == to {
		return out, nil
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// Move computes the display order writes for moving ids[from] to index to.
// No-op moves (from == to, empty or single-element scopes) return nil. An
// empty scope has nothing to index, so it is a no-op for any indexes.
func Move(ids []int64, from, to int) ([]models.OrderUpdate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	moved, err := MoveSlice(ids, from, to)
	if err != nil {
		return nil, err
	}
	if from == to || len(ids) < 2 {
		return nil, nil
	}
	return Restamp(moved), nil
}

// Restamp assigns display_order = index+1 to every id.
func Restamp(ids []int64) []models.OrderUpdate {
	updates := make([]models.OrderUpdate, len(ids))
	for i, id := range ids {
		updates[i] = models.OrderUpdate{ID: id, DisplayOrder: i + 1}
	}
	return updates
}

// Apply returns ids sorted by the display orders in updates. Ids without an
// update keep their relative order after the updated ones.
func Apply(ids []int64, updates []models.OrderUpdate) []int64 {
	pos := make(map[int64]int, len(updates))
	for _, u := range updates {
		pos[u.ID] = u.DisplayOrder
	}

	out := make([]int64, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		pa, oka := pos[out[i]]
		pb, okb := pos[out[j]]
		if oka && okb {
			return pa < pb
		}
		return oka && !okb
	})
	return out
}

// ValidateFullScope checks that updates restamp exactly the ids of one scope:
// every id present once and display orders forming 1..N.
func ValidateFullScope(scope models.ScopeKind, scopeIDs []int64, updates []models.OrderUpdate) error {
	if len(updates) != len(scopeIDs) {
		return errs.NewScopeMismatchError(string(scope),
			fmt.Sprintf("expected %d updates, got %d", len(scopeIDs), len(updates)))
	}

	inScope := make(map[int64]bool, len(scopeIDs))
	for _, id := range scopeIDs {
		inScope[id] = true
	}

	seenID := make(map[int64]bool, len(updates))
	seenOrder := make(map[int]bool, len(updates))
	for _, u := range updates {
		if !inScope[u.ID] {
			return errs.NewScopeMismatchError(string(scope), fmt.Sprintf("id %d is not part of the scope", u.ID))
		}
		if seenID[u.ID] {
			return errs.NewScopeMismatchError(string(scope), fmt.Sprintf("id %d appears more than once", u.ID))
		}
		if u.DisplayOrder < 1 || u.DisplayOrder > len(updates) || seenOrder[u.DisplayOrder] {
			return errs.NewScopeMismatchError(string(scope),
				fmt.Sprintf("display orders must be exactly 1..%d", len(updates)))
		}
		seenID[u.ID] = true
		seenOrder[u.DisplayOrder] = true
	}
	return nil
}

func checkIndexes(n, from, to int) error {
	if from < 0 || from >= n {
		return errs.NewInvalidIndexError("from", from, n)
	}
	if to < 0 || to >= n {
		return errs.NewInvalidIndexError("to", to, n)
	}
	return nil
}
