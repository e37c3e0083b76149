// Package btree reads HFS Plus B-tree nodes: the catalog, extents
// overflow, and attributes files are all instances of the same
// node/header/record layout, differing only in what their keys and
// leaf records decode to.
package btree

import (
	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// Node is one fully decoded B-tree node: its descriptor plus the raw
// bytes of every record, sliced out of the node's buffer. It is built
// once by decode and never mutated afterward, so there is no need for
// the double-decode guard the original C reader used a sentinel value
// for — an immutable Node can't be swapped twice because it is never
// swapped in place at all.
type Node struct {
	Descriptor types.BTNodeDescriptor

	// Records holds each record's raw bytes, keyed by record index.
	// Record 0 of an index or leaf node is a live entry like any
	// other and participates in Tree's search and iteration the same
	// as every other record (see Tree.Search). The format's reference
	// reader skips record 0 only when byte-swapping a node in place,
	// a concern that doesn't apply here since each record is decoded
	// on demand from its own slice rather than mutated in a shared
	// buffer.
	Records [][]byte
}

// decodeNode parses a single node-sized buffer into its descriptor
// and record slices. The record offset table is stored reversed,
//16-bit entries right before the end of the node, one more entry
// than NumRecords (the trailing entry marks free space, per TN1150).
func decodeNode(buf []byte, nodeSize uint32) (*Node, error) {
	if uint32(len(buf)) < nodeSize {
		return nil, herr.Newf(herr.Malformed, "node buffer shorter than node size: %d < %d", len(buf), nodeSize)
	}
	desc, err := endian.DecodeBTNodeDescriptor(buf)
	if err != nil {
		return nil, err
	}

	numOffsets := int(desc.NumRecords) + 1
	offsetTableBytes := numOffsets * 2
	if offsetTableBytes > len(buf) {
		return nil, herr.Newf(herr.Malformed, "node claims %d records, offset table would exceed node size", desc.NumRecords)
	}
	tableStart := int(nodeSize) - offsetTableBytes

	offsets := make([]uint16, numOffsets)
	for i := 0; i < numOffsets; i++ {
		off := tableStart + i*2
		offsets[i] = uint16(buf[off])<<8 | uint16(buf[off+1])
	}
	// Offsets are stored last-to-first: offsets[0] is the free-space
	// marker, offsets[NumRecords] is record 0's start. Reverse into
	// logical record order.
	reversed := make([]uint16, numOffsets)
	for i, v := range offsets {
		reversed[numOffsets-1-i] = v
	}

	records := make([][]byte, desc.NumRecords)
	for i := 0; i < int(desc.NumRecords); i++ {
		start := reversed[i]
		end := reversed[i+1]
		if int(start) > len(buf) || int(end) > len(buf) || end < start {
			return nil, herr.Newf(herr.Malformed, "record %d has invalid bounds [%d,%d)", i, start, end)
		}
		records[i] = buf[start:end]
	}

	return &Node{Descriptor: desc, Records: records}, nil
}
