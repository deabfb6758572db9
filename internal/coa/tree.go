package coa

import (
	"fmt"
	"sort"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// RebuildBounds recomputes nested-set Lft/Rgt/Depth for the whole chart from
// parent pointers. It is a pure in-memory pass over an arena of nodes: the
// caller loads all accounts, rebuilds, and persists the bounds in one bulk
// update under the registry lock. Children are visited in code order so the
// tree reads naturally in reports.
func RebuildBounds(accounts []Account) ([]Account, error) {
	arena := make([]Account, len(accounts))
	copy(arena, accounts)

	index := make(map[int64]int, len(arena))
	for i, a := range arena {
		index[a.ID] = i
	}

	children := make(map[int64][]int)
	var roots []int
	for i, a := range arena {
		if a.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		pi, ok := index[*a.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s references missing parent %d", shared.ErrIntegrity, a.Code, *a.ParentID)
		}
		children[arena[pi].ID] = append(children[arena[pi].ID], i)
	}

	byCode := func(idxs []int) {
		sort.Slice(idxs, func(x, y int) bool { return arena[idxs[x]].Code < arena[idxs[y]].Code })
	}
	byCode(roots)
	for id := range children {
		byCode(children[id])
	}

	counter := 0
	visited := 0
	var walk func(i, depth int) error
	walk = func(i, depth int) error {
		if depth > len(arena) {
			return fmt.Errorf("%w: cycle in chart of accounts at %s", shared.ErrIntegrity, arena[i].Code)
		}
		counter++
		arena[i].Lft = counter
		arena[i].Depth = depth
		for _, ci := range children[arena[i].ID] {
			if err := walk(ci, depth+1); err != nil {
				return err
			}
		}
		counter++
		arena[i].Rgt = counter
		visited++
		return nil
	}
	for _, ri := range roots {
		if err := walk(ri, 0); err != nil {
			return nil, err
		}
	}
	if visited != len(arena) {
		return nil, fmt.Errorf("%w: %d accounts unreachable from any root", shared.ErrIntegrity, len(arena)-visited)
	}
	return arena, nil
}
