package btree

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// CatalogRecord is the decoded form of one catalog leaf payload: the
// exported Kind discriminates which of the other fields is valid.
type CatalogRecord struct {
	Kind   uint16
	Folder types.CatalogFolder
	File   types.CatalogFile
	Thread types.CatalogThread
}

// DecodeCatalogRecord dispatches on the record's leading recordType
// field (folder=1, file=2, folder-thread=3, file-thread=4) the same
// way swap_BTreeNode's leaf-record branch does.
func DecodeCatalogRecord(payload []byte) (CatalogRecord, error) {
	if len(payload) < 2 {
		return CatalogRecord{}, herr.New(herr.Malformed, "catalog record too short for a record type")
	}
	kind := binary.BigEndian.Uint16(payload[0:2])
	switch kind {
	case types.RecordTypeFolder:
		f, err := endian.DecodeCatalogFolder(payload)
		return CatalogRecord{Kind: kind, Folder: f}, err
	case types.RecordTypeFile:
		f, err := endian.DecodeCatalogFile(payload)
		return CatalogRecord{Kind: kind, File: f}, err
	case types.RecordTypeFolderThread, types.RecordTypeFileThread:
		th, err := endian.DecodeCatalogThread(payload)
		return CatalogRecord{Kind: kind, Thread: th}, err
	default:
		return CatalogRecord{}, herr.Newf(herr.Malformed, "unrecognized catalog record type %d", kind)
	}
}

// BuildThreadLookupKey encodes a lookup key for a catalog thread
// record: parent ID with an empty name, which every catalog tree in
// this format reserves to store the folder/file's thread record.
func BuildThreadLookupKey(parentID uint32) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint16(buf[0:2], 6) // parentID(4) + nameLength field(2)
	binary.BigEndian.PutUint32(buf[2:6], parentID)
	binary.BigEndian.PutUint16(buf[6:8], 0)
	return buf
}

// BuildCatalogKey encodes a catalog key for parentID/name, in the
// on-disk form Tree.Search expects.
func BuildCatalogKey(parentID uint32, name []uint16) []byte {
	buf := make([]byte, 6+2+len(name)*2)
	binary.BigEndian.PutUint16(buf[0:2], uint16(4+2+len(name)*2))
	binary.BigEndian.PutUint32(buf[2:6], parentID)
	binary.BigEndian.PutUint16(buf[6:8], uint16(len(name)))
	for i, u := range name {
		binary.BigEndian.PutUint16(buf[8+i*2:10+i*2], u)
	}
	return buf
}
