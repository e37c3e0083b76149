package btree

import (
	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// Reader is the minimal shape a fork must provide for a Tree to read
// it: byte-range access by logical offset. internal/fork.Fork
// satisfies this structurally; this package never imports it, which
// keeps the two packages' dependency pointing one way only (fork
// depends on btree to resolve extents-overflow records, not the
// reverse).
type Reader interface {
	ReadRange(buf []byte, size int, offset uint64) (int, error)
}

// Compare orders two raw, still-encoded keys. It returns a negative
// number if a sorts before b, zero if equal, positive if a sorts
// after b. Implementations receive each key in its on-disk byte
// layout and decode the fields they compare (see NewCatalogCompare
// and NewExtentCompare).
type Compare func(a, b []byte) int

// Tree reads nodes from one B-tree (catalog, extents overflow, or
// attributes) stored in a fork.
type Tree struct {
	reader Reader
	header types.BTHeaderRec
	less   Compare
}

// headerProbeSize is read first to recover NodeSize from the header
// record before any node-sized read is attempted. It is generous
// enough to cover the largest BTNodeDescriptor+BTHeaderRec pair this
// format defines.
const headerProbeSize = types.BTNodeDescriptorSize + types.BTHeaderRecSize

// Open reads node 0 (the header node) of the tree stored in reader
// and returns a Tree ready to Search or Iterate. cmp orders the
// tree's keys; see NewCatalogCompare and NewExtentCompare.
func Open(reader Reader, cmp Compare) (*Tree, error) {
	probe := make([]byte, headerProbeSize)
	n, err := reader.ReadRange(probe, headerProbeSize, 0)
	if err != nil {
		return nil, err
	}
	if n < headerProbeSize {
		return nil, herr.New(herr.Malformed, "btree fork too short to contain a header node")
	}

	desc, err := endian.DecodeBTNodeDescriptor(probe)
	if err != nil {
		return nil, err
	}
	if desc.Kind != types.BTNodeKindHeader {
		return nil, herr.Newf(herr.Malformed, "node 0 is not a header node (kind=%d)", desc.Kind)
	}

	header, err := endian.DecodeBTHeaderRec(probe[types.BTNodeDescriptorSize:])
	if err != nil {
		return nil, err
	}
	if header.NodeSize == 0 {
		return nil, herr.New(herr.Malformed, "btree header reports a zero node size")
	}

	return &Tree{reader: reader, header: header, less: cmp}, nil
}

// NodeSize reports the tree's fixed on-disk node size.
func (t *Tree) NodeSize() uint32 { return uint32(t.header.NodeSize) }

// RootNode is the node number to begin a Search from.
func (t *Tree) RootNode() uint32 { return t.header.RootNode }

// FirstLeafNode is the node number of the leftmost leaf, the starting
// point for a full in-order Iterate.
func (t *Tree) FirstLeafNode() uint32 { return t.header.FirstLeafNode }

// ReadNode reads and decodes node number num.
func (t *Tree) ReadNode(num uint32) (*Node, error) {
	nodeSize := t.NodeSize()
	buf := make([]byte, nodeSize)
	n, err := t.reader.ReadRange(buf, int(nodeSize), uint64(num)*uint64(nodeSize))
	if err != nil {
		return nil, err
	}
	if uint32(n) < nodeSize {
		return nil, herr.Newf(herr.Malformed, "node %d: short read (%d of %d bytes)", num, n, nodeSize)
	}
	return decodeNode(buf, nodeSize)
}

// MaxDescentIterations bounds a Search's root-to-leaf descent. A
// well-formed tree descends at most header.TreeDepth levels; this is
// a generous multiple guarding against a fLink/child pointer cycle in
// a malformed tree.
const MaxDescentIterations = 256

// Search descends from the root to the leaf node that would contain
// key, then scans that leaf's records for an exact match. It returns
// (nil, false, nil) if the tree is well-formed but key is absent.
// Every record, including record 0, participates in this search: the
// format's reference reader skips record 0 specifically when
// byte-swapping a node in place, a concern that doesn't apply here
// since each record is decoded on demand from its own slice rather
// than mutated in a shared buffer. Search treats all records as live
// entries, as it must for correctness.
func (t *Tree) Search(key []byte) (record []byte, found bool, err error) {
	nodeNum := t.RootNode()
	for depth := 0; depth < MaxDescentIterations; depth++ {
		node, err := t.ReadNode(nodeNum)
		if err != nil {
			return nil, false, err
		}

		switch node.Descriptor.Kind {
		case types.BTNodeKindIndex:
			child, ok, err := t.searchIndexNode(node, key)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			nodeNum = child

		case types.BTNodeKindLeaf:
			return t.searchLeafNode(node, key)

		default:
			return nil, false, herr.Newf(herr.Malformed, "descended into a node of unexpected kind %d", node.Descriptor.Kind)
		}
	}
	return nil, false, herr.New(herr.StuckTraversal, "btree descent did not reach a leaf")
}

// searchIndexNode picks the child pointer whose key range contains
// key: the last record (starting from record 0) whose key is <= key.
func (t *Tree) searchIndexNode(node *Node, key []byte) (uint32, bool, error) {
	var best uint32
	haveBest := false
	for i := 0; i < len(node.Records); i++ {
		rk, payload, err := splitKeyRecord(node.Records[i])
		if err != nil {
			return 0, false, err
		}
		if t.less(rk, key) <= 0 {
			if len(payload) < 4 {
				return 0, false, herr.Newf(herr.Malformed, "index record %d too short for a child pointer", i)
			}
			best = beUint32(payload)
			haveBest = true
		} else {
			break
		}
	}
	return best, haveBest, nil
}

func (t *Tree) searchLeafNode(node *Node, key []byte) ([]byte, bool, error) {
	for i := 0; i < len(node.Records); i++ {
		rk, payload, err := splitKeyRecord(node.Records[i])
		if err != nil {
			return nil, false, err
		}
		c := t.less(rk, key)
		if c == 0 {
			return payload, true, nil
		}
		if c > 0 {
			return nil, false, nil
		}
	}
	return nil, false, nil
}

// Iterate walks every leaf node from FirstLeafNode to LastLeafNode via
// each node's forward link, calling fn once per record (including
// record 0 of each leaf). Iteration stops early if fn returns false.
func (t *Tree) Iterate(fn func(key, payload []byte) bool) error {
	nodeNum := t.FirstLeafNode()
	seen := 0
	for nodeNum != 0 || seen == 0 {
		if seen > int(t.header.LeafRecords)+int(t.header.TotalNodes)+1 {
			return herr.New(herr.StuckTraversal, "leaf node chain did not terminate")
		}
		node, err := t.ReadNode(nodeNum)
		if err != nil {
			return err
		}
		if node.Descriptor.Kind != types.BTNodeKindLeaf {
			return herr.Newf(herr.Malformed, "node %d in leaf chain is not a leaf (kind=%d)", nodeNum, node.Descriptor.Kind)
		}
		for i := 0; i < len(node.Records); i++ {
			rk, payload, err := splitKeyRecord(node.Records[i])
			if err != nil {
				return err
			}
			if !fn(rk, payload) {
				return nil
			}
		}
		seen++
		if node.Descriptor.FLink == 0 {
			break
		}
		nodeNum = node.Descriptor.FLink
	}
	return nil
}

// splitKeyRecord splits a raw B-tree record into its key bytes and
// its trailing payload, using the 16-bit key length prefix every tree
// in this package uses (kBTBigKeysMask is always set for the catalog,
// extents overflow, and attributes files on an HFS Plus volume). The
// returned key includes its own 2-byte length prefix, since every
// Decode*Key function in internal/endian reads that prefix as the
// first field of the key struct it decodes.
func splitKeyRecord(record []byte) (key, payload []byte, err error) {
	if len(record) < 2 {
		return nil, nil, herr.New(herr.Malformed, "record too short for a key length")
	}
	keyLen := beUint16(record)
	span := endian.KeyRecordSpan(keyLen)
	if 2+span > len(record) {
		return nil, nil, herr.Newf(herr.Malformed, "key length %d exceeds record size %d", keyLen, len(record))
	}
	return record[0 : 2+int(keyLen)], record[2+span:], nil
}

func beUint16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
