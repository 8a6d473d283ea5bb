package frame

import (
	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/internal/hash"
)

// Levels is the ordered pool of category values shared by the cells of a
// categorical column. Lookup goes through a 64-bit hash of the level text;
// the rare hash collision falls back to an exact-match map, so two distinct
// levels never alias.
type Levels struct {
	labels     []string
	index      map[uint64]int32 // hash of label to code
	collisions map[string]int32 // exact fallback, allocated on first collision
}

// NewLevels returns an empty pool.
func NewLevels() *Levels {
	return &Levels{
		index: make(map[uint64]int32),
	}
}

// LevelsFromLabels builds a pool whose codes follow the order of labels.
func LevelsFromLabels(labels []string) *Levels {
	l := NewLevels()
	for _, label := range labels {
		l.Add(label)
	}

	return l
}

// Len returns the number of levels in the pool.
func (l *Levels) Len() int { return len(l.labels) }

// Labels returns the pool's labels in code order. The slice is shared, not
// copied.
func (l *Levels) Labels() []string { return l.labels }

// Label returns the text of the given code.
func (l *Levels) Label(code int32) (string, error) {
	if code < 0 || int(code) >= len(l.labels) {
		return "", errs.ErrInvalidCategoryCode
	}

	return l.labels[code], nil
}

// Lookup returns the code of label, if pooled.
func (l *Levels) Lookup(label string) (int32, bool) {
	h := hash.ID(label)
	code, ok := l.index[h]
	if !ok {
		return 0, false
	}
	if l.labels[code] == label {
		return code, true
	}
	// Hash hit on a different label: consult the exact map.
	code, ok = l.collisions[label]

	return code, ok
}

// Add interns label, returning its existing code or appending a new level.
func (l *Levels) Add(label string) int32 {
	if code, ok := l.Lookup(label); ok {
		return code
	}

	code := int32(len(l.labels))
	l.labels = append(l.labels, label)

	h := hash.ID(label)
	if prev, exists := l.index[h]; exists && l.labels[prev] != label {
		if l.collisions == nil {
			l.collisions = make(map[string]int32)
		}
		l.collisions[label] = code
	} else {
		l.index[h] = code
	}

	return code
}

// remap translates codes defined against other into this pool, interning
// levels that are not yet present. Cells flagged missing keep code 0.
func (l *Levels) remap(codes []int32, other *Levels, missing []bool) ([]int32, error) {
	out := make([]int32, len(codes))
	for i, c := range codes {
		if missing != nil && missing[i] {
			continue
		}
		label, err := other.Label(c)
		if err != nil {
			return nil, err
		}
		out[i] = l.Add(label)
	}

	return out, nil
}
