package catalog

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// CrossIndex is a bidirectional partial injection between the numbers of one
// catalog and canonical indices. Each number maps to at most one index and
// each index to at most one number.
type CrossIndex struct {
	byNumber map[Number]Index
	byIndex  map[Index]Number
}

// NewCrossIndex returns an empty cross index.
func NewCrossIndex() *CrossIndex {
	return &CrossIndex{
		byNumber: make(map[Number]Index),
		byIndex:  make(map[Index]Number),
	}
}

// Add maps num to idx. When either side is already mapped elsewhere the call
// fails with ErrDuplicateMapping unless overwrite is set, in which case the
// stale pairs are dropped so the mapping stays injective. Adding a pair that
// is already present is a no-op.
func (x *CrossIndex) Add(num Number, idx Index, overwrite bool) error {
	if num == InvalidNumber || idx == InvalidIndex {
		return ErrInvalidMapping
	}
	if x.conflicts(num, idx) {
		if !overwrite {
			return fmt.Errorf("%w: %d -> %d", ErrDuplicateMapping, num, idx)
		}
		x.unlink(num, idx)
	}
	x.byNumber[num] = idx
	x.byIndex[idx] = num
	return nil
}

// AddRange maps count consecutive numbers starting at startNum onto count
// consecutive indices starting at startIdx. It is all-or-nothing: without
// overwrite a single conflict rejects the whole range and nothing changes.
// It returns the number of pairs in place after the call.
func (x *CrossIndex) AddRange(startNum Number, startIdx Index, count int, overwrite bool) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	if startNum == InvalidNumber || startIdx == InvalidIndex {
		return 0, ErrInvalidMapping
	}
	last := uint64(startIdx) + uint64(count) - 1
	if last > uint64(MaxIndex) || uint64(startNum)+uint64(count)-1 < uint64(startNum) {
		return 0, fmt.Errorf("%w: %d entries from index %d", ErrRangeOverflow, count, startIdx)
	}

	if !overwrite {
		for i := 0; i < count; i++ {
			num, idx := startNum+Number(i), startIdx+Index(i)
			if x.conflicts(num, idx) {
				return 0, fmt.Errorf("%w: %d -> %d (range of %d rejected)", ErrDuplicateMapping, num, idx, count)
			}
		}
	}
	for i := 0; i < count; i++ {
		num, idx := startNum+Number(i), startIdx+Index(i)
		x.unlink(num, idx)
		x.byNumber[num] = idx
		x.byIndex[idx] = num
	}
	return count, nil
}

// conflicts reports whether num or idx is mapped to something other than the
// other.
func (x *CrossIndex) conflicts(num Number, idx Index) bool {
	if cur, ok := x.byNumber[num]; ok && cur != idx {
		return true
	}
	if cur, ok := x.byIndex[idx]; ok && cur != num {
		return true
	}
	return false
}

func (x *CrossIndex) unlink(num Number, idx Index) {
	if old, ok := x.byNumber[num]; ok {
		delete(x.byIndex, old)
		delete(x.byNumber, num)
	}
	if old, ok := x.byIndex[idx]; ok {
		delete(x.byNumber, old)
		delete(x.byIndex, idx)
	}
}

// Lookup returns the index for num, or InvalidIndex.
func (x *CrossIndex) Lookup(num Number) Index {
	return x.byNumber[num]
}

// Number returns the catalog number for idx, or InvalidNumber.
func (x *CrossIndex) Number(idx Index) Number {
	return x.byIndex[idx]
}

// Remove drops whatever mapping idx takes part in. It reports whether one
// existed.
func (x *CrossIndex) Remove(idx Index) bool {
	num, ok := x.byIndex[idx]
	if !ok {
		return false
	}
	delete(x.byIndex, idx)
	delete(x.byNumber, num)
	return true
}

// Len returns the number of pairs.
func (x *CrossIndex) Len() int { return len(x.byNumber) }

// All yields pairs in ascending catalog-number order.
func (x *CrossIndex) All() iter.Seq2[Number, Index] {
	return func(yield func(Number, Index) bool) {
		for _, num := range slices.Sorted(maps.Keys(x.byNumber)) {
			if !yield(num, x.byNumber[num]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (x *CrossIndex) Clone() *CrossIndex {
	return &CrossIndex{
		byNumber: maps.Clone(x.byNumber),
		byIndex:  maps.Clone(x.byIndex),
	}
}
