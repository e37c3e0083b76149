package btree

import (
	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// OverflowTree resolves extents-overflow continuation records for any
// other fork on the volume. It implements internal/fork.OverflowResolver.
type OverflowTree struct {
	tree *Tree
}

// OpenOverflow opens the extents overflow B-tree stored in reader.
// reader must come from the extents-overflow file's own fork, which
// is built directly from its embedded extents without consulting an
// OverflowResolver (see internal/fork's handling of CNIDExtentsFile),
// avoiding the circular dependency a self-referential overflow lookup
// would otherwise create.
func OpenOverflow(reader Reader) (*OverflowTree, error) {
	tree, err := Open(reader, NewExtentCompare())
	if err != nil {
		return nil, err
	}
	if tree.header.BTreeType != types.BTreeKindHFS {
		return nil, herr.Newf(herr.Malformed, "extents overflow tree has unexpected btree type %d", tree.header.BTreeType)
	}
	return &OverflowTree{tree: tree}, nil
}

// ExtentsFor returns the continuation extents for (fileID, forkType)
// whose record key begins exactly at afterBlock, the number of
// logical blocks already covered by the fork's prior extents. HFS
// Plus overflow keys are written with the start block of the gap they
// fill, so an exact-match lookup is always the right one; there is no
// need to scan for the nearest lesser key.
func (o *OverflowTree) ExtentsFor(fileID uint32, forkType uint8, afterBlock uint32) ([]types.ExtentDescriptor, error) {
	key := BuildExtentKey(fileID, forkType, afterBlock)
	payload, found, err := o.tree.Search(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	rec, err := endian.DecodeExtentRecord(payload)
	if err != nil {
		return nil, err
	}
	out := make([]types.ExtentDescriptor, 0, types.ExtentDensity)
	for _, e := range rec {
		if e.BlockCount == 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
