package timeline

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNotMoveable   = errors.New("timeline entry cannot be moved")
	ErrEntryNotFound = errors.New("timeline entry not found")
)

// MoveBefore returns a copy of arr with from placed right before to. If from
// is not in arr it is inserted; if to is not in arr the value goes to the end.
func MoveBefore[T comparable](arr []T, from, to T) []T {
	out := slices.Clone(arr)
	if i := slices.Index(out, from); i >= 0 {
		out = slices.Delete(out, i, i+1)
	}
	j := slices.Index(out, to)
	if j < 0 {
		return append(out, from)
	}
	return slices.Insert(out, j, from)
}

// Reorder moves the entry with id fromID before the entry with id beforeID.
// Only moveable entries can be moved; the target may be of any kind.
func Reorder(entries []Entry, fromID, beforeID string) ([]Entry, error) {
	ids := make([]string, len(entries))
	byID := make(map[string]Entry, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		byID[e.ID] = e
	}
	from, ok := byID[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, fromID)
	}
	if _, ok := byID[beforeID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, beforeID)
	}
	if !IsMoveable(from.Type) {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotMoveable, fromID, from.Type)
	}
	moved := MoveBefore(ids, fromID, beforeID)
	out := make([]Entry, len(moved))
	for i, id := range moved {
		out[i] = byID[id]
	}
	return out, nil
}
