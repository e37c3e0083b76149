// Package types defines the on-disk structures for HFS Plus / HFSX volumes.
// Field layouts, widths, and byte order follow Apple Technical Note TN1150.
package types

// Volume signatures (TN1150 "Volume Header").
const (
	SigHFS         uint16 = 0x4244 // 'BD', HFS Standard Master Directory Block
	SigHFSPlus     uint16 = 0x482B // 'H+'
	SigHFSX        uint16 = 0x4858 // 'HX'
	SigHFSWrapData uint16 = 0x4244 // same as SigHFS; present for readability at call sites
)

// Reserved catalog node IDs (TN1150 "Catalog File").
const (
	CNIDRootParent  uint32 = 1
	CNIDRootFolder  uint32 = 2
	CNIDExtentsFile uint32 = 3
	CNIDCatalogFile uint32 = 4
	CNIDBadBlockFile uint32 = 5
	CNIDAllocationFile uint32 = 6
	CNIDStartupFile uint32 = 7
	CNIDAttributesFile uint32 = 8
	CNIDRepairCatalogFile uint32 = 14
	CNIDBogusExtentFile uint32 = 15
	CNIDFirstUserCatalogNodeID uint32 = 16
)

// Catalog leaf record kinds (TN1150 "Catalog File").
const (
	RecordTypeFolder       uint16 = 1
	RecordTypeFile         uint16 = 2
	RecordTypeFolderThread uint16 = 3
	RecordTypeFileThread   uint16 = 4
)

// B-tree node kinds (TN1150 "B-Trees").
const (
	BTNodeKindLeaf   int8 = -1
	BTNodeKindIndex  int8 = 0
	BTNodeKindHeader int8 = 1
	BTNodeKindMap    int8 = 2
)

// B-tree kinds, as found in BTHeaderRec.BTreeType.
const (
	BTreeKindHFS            uint8 = 0 // control file, e.g. catalog/extents
	BTreeKindUserBTree      uint8 = 128
	BTreeKindReservedBTree  uint8 = 255
)

// Key-compare types, as found in BTHeaderRec.KeyCompareType.
const (
	KeyCompareCaseFolding uint8 = 0xCF // case-insensitive Unicode folding
	KeyCompareBinary      uint8 = 0xBC // byte-wise binary compare (HFSX)
)

// BTHeaderRec.Attributes bits.
const (
	BTAttrBadClose     uint32 = 0x00000001
	BTAttrBigKeys      uint32 = 0x00000002 // key length is stored as 16 bits, not 8
	BTAttrVariableIndexKeys uint32 = 0x00000004
)

// Fork types used when addressing the extents-overflow file.
const (
	ForkTypeData     uint8 = 0x00
	ForkTypeResource uint8 = 0xFF
)
