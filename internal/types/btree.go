package types

// BTNodeDescriptor is the 14-byte header at the start of every B-tree
// node (TN1150 "B-Trees: Node Descriptor").
type BTNodeDescriptor struct {
	FLink      uint32
	BLink      uint32
	Kind       int8
	Height     uint8
	NumRecords uint16
	Reserved   uint16
}

// BTNodeDescriptorSize is the on-disk size of BTNodeDescriptor.
const BTNodeDescriptorSize = 14

// BTHeaderRec is the fixed-size header record stored as record 0 of
// a B-tree's header node (TN1150 "B-Trees: Header Record").
type BTHeaderRec struct {
	TreeDepth      uint16
	RootNode       uint32
	LeafRecords    uint32
	FirstLeafNode  uint32
	LastLeafNode   uint32
	NodeSize       uint16
	MaxKeyLength   uint16
	TotalNodes     uint32
	FreeNodes      uint32
	Reserved1      uint16
	ClumpSize      uint32
	BTreeType      uint8
	KeyCompareType uint8
	Attributes     uint32
	Reserved3      [16]uint32
}

// BTHeaderRecSize is the on-disk size of BTHeaderRec.
const BTHeaderRecSize = 106

// BTreeKey is the generic shape shared by every key used in this
// package's B-trees: a length prefix followed by opaque key data.
// HFS Plus always uses the 16-bit length form (kBTBigKeysMask is set
// in every tree this package reads); the 8-bit form from the classic
// HFS on-disk format is not decoded.
type BTreeKey struct {
	Length16 uint16
	RawData  []byte
}
