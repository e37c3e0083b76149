package types

// ExtentDescriptor locates one contiguous run of allocation blocks
// (TN1150 "Extents Overflow File").
type ExtentDescriptor struct {
	StartBlock uint32
	BlockCount uint32
}

// ExtentDensity is the number of extent descriptors embedded directly
// in a ForkData record before the extents-overflow file must be consulted.
const ExtentDensity = 8

// ForkData describes the allocation of a single fork (TN1150 "Fork Data Structure").
type ForkData struct {
	LogicalSize uint64
	ClumpSize   uint32
	TotalBlocks uint32
	Extents     [ExtentDensity]ExtentDescriptor
}

// VolumeHeader is the 512-byte HFS Plus / HFSX volume header, always
// located at byte offset 1024 from the start of the volume (TN1150
// "Volume Header").
type VolumeHeader struct {
	Signature           uint16
	Version             uint16
	Attributes          uint32
	LastMountedVersion  uint32
	JournalInfoBlock    uint32

	CreateDate      uint32
	ModifyDate      uint32
	BackupDate      uint32
	CheckedDate     uint32

	FileCount   uint32
	FolderCount uint32

	BlockSize      uint32
	TotalBlocks    uint32
	FreeBlocks     uint32

	NextAllocation uint32
	RsrcClumpSize  uint32
	DataClumpSize  uint32
	NextCatalogID  uint32

	WriteCount      uint32
	EncodingsBitmap uint64

	FinderInfo [32]byte // opaque, never byte-swapped

	AllocationFile  ForkData
	ExtentsFile     ForkData
	CatalogFile     ForkData
	AttributesFile  ForkData
	StartupFile     ForkData
}

// Volume header attribute bits (TN1150 "Volume Header", volume attributes).
const (
	VolUnmountedBit       uint32 = 1 << 8
	VolSoftwareLockBit    uint32 = 1 << 15
	VolHardwareLockBit    uint32 = 1 << 7
)

// MasterDirectoryBlock is the legacy HFS Standard volume header, used
// only to detect a "wrapped" HFS Plus volume embedded inside an HFS
// Standard wrapper. Fields not needed to locate the embedded volume
// are omitted.
type MasterDirectoryBlock struct {
	Signature      uint16 // drSigWord
	CreateDate     uint32
	ModifyDate     uint32
	Attributes     uint16
	RootFileCount  uint16
	VolBitmapStart uint16
	AllocationPtr  uint16
	TotalBlocks    uint16 // drNmAlBlks
	BlockSize      uint32 // drAlBlkSiz
	ClumpSize      uint32
	AllocBlockStart uint16 // drAlBlSt, in 512-byte sectors
	NextCatalogID  uint32
	FreeBlocks     uint16

	EmbeddedSignature uint16           // drEmbedSigWord, e.g. 'H+'
	EmbeddedExtent    ExtentDescriptorHFS // drEmbedExtent
}

// ExtentDescriptorHFS is the HFS-Standard (16-bit) extent descriptor
// used only inside MasterDirectoryBlock.EmbeddedExtent.
type ExtentDescriptorHFS struct {
	StartBlock uint16
	BlockCount uint16
}

// JournalInfoBlock is read-only metadata about an active journal.
// Replaying the journal is out of scope; only its header is exposed.
type JournalInfoBlock struct {
	Flags      uint32
	DeviceSignature [32]uint32
	Offset     uint64
	Size       uint64
	RawReserved [32]uint32
}

// Journal info block flag bits.
const (
	JournalInFSMask  uint32 = 0x00000001
	JournalOnOtherDevice uint32 = 0x00000002
	JournalNeedInitMask  uint32 = 0x00000004
)
