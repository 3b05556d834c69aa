// Package catalog maps catalog-native numbers (HD, Gliese, SAO, HIP, TYC and
// custom schemes) onto one canonical index space.
package catalog

import (
	"math"
	"strconv"
)

// Index is the canonical identifier of an object. It is unique per object for
// the lifetime of a database.
type Index uint32

// Number is a catalog-native number. Tycho numbers are packed, see PackTycho.
type Number uint64

const (
	// InvalidIndex is returned by lookups that miss.
	InvalidIndex Index = 0

	// InvalidNumber is returned by reverse lookups that miss.
	InvalidNumber Number = 0

	// ReservedMax is the top of the range reserved for catalog numbers that
	// double as canonical indices. It is the largest Hipparcos number.
	ReservedMax Index = 999_999

	// AutoIndexMin is the first index the allocator issues.
	AutoIndexMin = ReservedMax + 1

	// MaxIndex is the last index the allocator issues. math.MaxUint32 itself
	// is never handed out.
	MaxIndex Index = math.MaxUint32 - 1
)

// Valid reports whether i is not the invalid sentinel.
func (i Index) Valid() bool { return i != InvalidIndex }

// Reserved reports whether i falls in the catalog-reserved range.
func (i Index) Reserved() bool { return i != InvalidIndex && i <= ReservedMax }

func (i Index) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// Allocator issues canonical indices above the reserved range.
//
// Not safe for concurrent use; the owning database serializes mutation.
type Allocator struct {
	next      uint64
	exhausted bool
}

// NewAllocator returns an allocator positioned at AutoIndexMin.
func NewAllocator() *Allocator {
	return &Allocator{next: uint64(AutoIndexMin)}
}

// Next returns the lowest unissued index that inUse does not claim. inUse may
// be nil. Once the space is exhausted every call fails.
func (a *Allocator) Next(inUse func(Index) bool) (Index, error) {
	if a.exhausted {
		return InvalidIndex, ErrIndexSpaceExhausted
	}
	for a.next <= uint64(MaxIndex) {
		idx := Index(a.next)
		a.next++
		if inUse == nil || !inUse(idx) {
			return idx, nil
		}
	}
	a.exhausted = true
	return InvalidIndex, ErrIndexSpaceExhausted
}

// Peek returns the index the next call would try first.
func (a *Allocator) Peek() Index {
	if a.exhausted || a.next > uint64(MaxIndex) {
		return InvalidIndex
	}
	return Index(a.next)
}

// Reset rewinds the allocator to AutoIndexMin.
func (a *Allocator) Reset() {
	a.next = uint64(AutoIndexMin)
	a.exhausted = false
}
