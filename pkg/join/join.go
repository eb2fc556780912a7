// Package join assembles referrals with their related rows through a fixed
// sequence of left-outer joins. Each join consumes the accumulated relation
// as a sequence and yields a new one; no input row is modified.
package join

import (
	"iter"
)

// Index groups the rows of a relation by join key. Rows sharing a key keep
// their source order. Rows with a missing key are not indexed.
type Index[R any] struct {
	rows map[string][]*R
	size int
}

// NewIndex indexes rows by the key returned for each of them.
func NewIndex[R any](rows []R, key func(*R) *string) *Index[R] {
	ix := &Index[R]{rows: make(map[string][]*R, len(rows))}
	for i := range rows {
		k := key(&rows[i])
		if k == nil {
			continue
		}
		ix.rows[*k] = append(ix.rows[*k], &rows[i])
		ix.size++
	}
	return ix
}

// Lookup returns the rows matching key. A missing key matches nothing.
func (ix *Index[R]) Lookup(key *string) []*R {
	if key == nil {
		return nil
	}
	return ix.rows[*key]
}

// Len returns the number of indexed rows.
func (ix *Index[R]) Len() int {
	return ix.size
}

// Keys returns the number of distinct keys.
func (ix *Index[R]) Keys() int {
	return len(ix.rows)
}

// LeftOuter yields, for every left row, one row per matching right row in
// right source order, or a single row with a nil right side when nothing
// matches. attach must return a new value and leave its inputs untouched.
func LeftOuter[L, R any](left iter.Seq[L], right *Index[R], key func(L) *string, attach func(L, *R) L) iter.Seq[L] {
	return func(yield func(L) bool) {
		for l := range left {
			matches := right.Lookup(key(l))
			if len(matches) == 0 {
				if !yield(attach(l, nil)) {
					return
				}
				continue
			}
			for _, m := range matches {
				if !yield(attach(l, m)) {
					return
				}
			}
		}
	}
}
