// Package extent implements the ordered logical-to-physical allocation
// block mapping ("extent list") used by every fork.
package extent

import (
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// Range is a contiguous run of logical blocks, [Start, Start+Count).
type Range struct {
	Start uint64
	Count uint64
}

// End returns the exclusive end of r.
func (r Range) End() uint64 { return r.Start + r.Count }

// List is an ordered sequence of extent descriptors, each one mapping
// a run of logical allocation blocks (implicit, computed by summing
// prior descriptors' block counts) to a run of physical blocks.
type List struct {
	descriptors []types.ExtentDescriptor
}

// New builds a List from a sequence of on-disk extent descriptors, in
// logical order. Zero-length trailing descriptors (unused slots in a
// fixed 8-entry array) are dropped.
func New(descs ...types.ExtentDescriptor) *List {
	l := &List{}
	for _, d := range descs {
		l.Append(d)
	}
	return l
}

// Append adds one more descriptor to the end of the list. A
// zero-block-count descriptor is ignored, matching how unused slots
// in a ForkData's embedded extent array are represented on disk.
func (l *List) Append(d types.ExtentDescriptor) {
	if d.BlockCount == 0 {
		return
	}
	l.descriptors = append(l.descriptors, d)
}

// TotalBlocks is the sum of every descriptor's block count.
func (l *List) TotalBlocks() uint64 {
	var total uint64
	for _, d := range l.descriptors {
		total += uint64(d.BlockCount)
	}
	return total
}

// Len reports how many descriptors are present.
func (l *List) Len() int { return len(l.descriptors) }

// At returns the i'th descriptor.
func (l *List) At(i int) types.ExtentDescriptor { return l.descriptors[i] }

// Find locates the physical block corresponding to logical block
// logicalBlock, along with how many further physical blocks are
// contiguous from there within the same descriptor (i.e. until either
// the descriptor ends or the caller's own requested run ends,
// whichever is sooner is left to the caller). It returns
// herr.Malformed if logicalBlock falls past the end of every
// descriptor in the list.
func (l *List) Find(logicalBlock uint64) (physicalStart uint64, runLength uint64, err error) {
	var logicalOffset uint64
	for _, d := range l.descriptors {
		count := uint64(d.BlockCount)
		if logicalBlock < logicalOffset+count {
			within := logicalBlock - logicalOffset
			return uint64(d.StartBlock) + within, count - within, nil
		}
		logicalOffset += count
	}
	return 0, 0, herr.Newf(herr.Malformed, "logical block %d not covered by extent list (covers %d blocks)", logicalBlock, logicalOffset)
}

// Iterate calls fn once per descriptor, in logical order, passing the
// logical block range it covers. Iteration stops early if fn returns
// false.
func (l *List) Iterate(fn func(logical Range, startBlock uint32) bool) {
	var logicalOffset uint64
	for _, d := range l.descriptors {
		count := uint64(d.BlockCount)
		if !fn(Range{Start: logicalOffset, Count: count}, d.StartBlock) {
			return
		}
		logicalOffset += count
	}
}

// Covers reports whether the list's total block count is at least
// wantBlocks, the property every fork's extent list must satisfy
// relative to its own reported TotalBlocks.
func (l *List) Covers(wantBlocks uint64) bool {
	return l.TotalBlocks() >= wantBlocks
}
