package types

// HFSUniStr255 is a Pascal-style Unicode string: a 16-bit length
// followed by up to 255 UTF-16 code units. Both are held as host-order
// values once decoded, and names are compared code unit by code unit
// in that form (see internal/endian).
type HFSUniStr255 struct {
	Length  uint16
	Unicode [255]uint16
}

// CatalogKey is the key half of every catalog B-tree record
// (TN1150 "Catalog File: Catalog File Keys").
type CatalogKey struct {
	KeyLength uint16
	ParentID  uint32
	NodeName  HFSUniStr255
}

// FndrDirInfo is the Finder's opaque per-folder placement info.
type FndrDirInfo struct {
	FrRectTop    int16
	FrRectLeft   int16
	FrRectBottom int16
	FrRectRight  int16
	FrFlags      uint16
	FrLocationV  int16
	FrLocationH  int16
	Opaque       int16
}

// FndrFileInfo is the Finder's opaque per-file type/creator info.
type FndrFileInfo struct {
	FdType      uint32
	FdCreator   uint32
	FdFlags     uint16
	FdLocationV int16
	FdLocationH int16
	Opaque      int16
}

// FndrOpaqueInfo is sixteen undocumented bytes carried verbatim; this
// package never interprets or swaps its contents.
type FndrOpaqueInfo [16]byte

// BSDInfo is the POSIX permission and ownership metadata attached to
// every catalog file/folder record.
type BSDInfo struct {
	OwnerID       uint32
	GroupID       uint32
	AdminFlags    uint8
	OwnerFlags    uint8
	FileMode      uint16
	SpecialINodeNum uint32 // union with LinkCount/RawDevice; this package only reads the inode-number interpretation
}

// CatalogFolder is a folder leaf record (TN1150 "Catalog File: Catalog Folder Record").
type CatalogFolder struct {
	RecordType       uint16
	Flags            uint16
	Valence          uint32
	FolderID         uint32
	CreateDate       uint32
	ContentModDate   uint32
	AttributeModDate uint32
	AccessDate       uint32
	BackupDate       uint32
	BSD              BSDInfo
	UserInfo         FndrDirInfo
	FinderInfo       FndrOpaqueInfo
	TextEncoding     uint32
	FolderCount      uint32
}

// CatalogFile is a file leaf record (TN1150 "Catalog File: Catalog File Record").
type CatalogFile struct {
	RecordType       uint16
	Flags            uint16
	Reserved1        uint32
	FileID           uint32
	CreateDate       uint32
	ContentModDate   uint32
	AttributeModDate uint32
	AccessDate       uint32
	BackupDate       uint32
	BSD              BSDInfo
	UserInfo         FndrFileInfo
	FinderInfo       FndrOpaqueInfo
	TextEncoding     uint32
	Reserved2        uint32
	DataFork         ForkData
	ResourceFork     ForkData
}

// CatalogThread is a folder-thread or file-thread record, mapping a
// CNID back to its parent and name (TN1150 "Catalog File: Catalog Thread Record").
type CatalogThread struct {
	RecordType uint16
	Reserved   uint32
	ParentID   uint32
	NodeName   HFSUniStr255
}

// File/folder flag bits relevant to this read-only inspector.
const (
	FileLockedBit  uint16 = 0x0001
	FileThreadExistsBit uint16 = 0x0002
	HasAttributesBit uint16 = 0x0004
)
