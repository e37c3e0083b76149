package endian

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// DecodeBSDInfo decodes the 16-byte POSIX ownership/permission block
// embedded in every catalog file/folder record. adminFlags and
// ownerFlags are single bytes and are never byte-swapped on the
// original platform either.
func DecodeBSDInfo(buf []byte) (types.BSDInfo, error) {
	if err := need(buf, 16, "bsd info"); err != nil {
		return types.BSDInfo{}, err
	}
	return types.BSDInfo{
		OwnerID:         binary.BigEndian.Uint32(buf[0:4]),
		GroupID:         binary.BigEndian.Uint32(buf[4:8]),
		AdminFlags:      buf[8],
		OwnerFlags:      buf[9],
		FileMode:        binary.BigEndian.Uint16(buf[10:12]),
		SpecialINodeNum: binary.BigEndian.Uint32(buf[12:16]),
	}, nil
}

// DecodeFndrDirInfo decodes the Finder's opaque folder placement info.
func DecodeFndrDirInfo(buf []byte) (types.FndrDirInfo, error) {
	if err := need(buf, 16, "finder dir info"); err != nil {
		return types.FndrDirInfo{}, err
	}
	return types.FndrDirInfo{
		FrRectTop:    int16(binary.BigEndian.Uint16(buf[0:2])),
		FrRectLeft:   int16(binary.BigEndian.Uint16(buf[2:4])),
		FrRectBottom: int16(binary.BigEndian.Uint16(buf[4:6])),
		FrRectRight:  int16(binary.BigEndian.Uint16(buf[6:8])),
		FrFlags:      binary.BigEndian.Uint16(buf[8:10]),
		FrLocationV:  int16(binary.BigEndian.Uint16(buf[10:12])),
		FrLocationH:  int16(binary.BigEndian.Uint16(buf[12:14])),
		Opaque:       int16(binary.BigEndian.Uint16(buf[14:16])),
	}, nil
}

// DecodeFndrFileInfo decodes the Finder's opaque type/creator info.
func DecodeFndrFileInfo(buf []byte) (types.FndrFileInfo, error) {
	if err := need(buf, 16, "finder file info"); err != nil {
		return types.FndrFileInfo{}, err
	}
	return types.FndrFileInfo{
		FdType:      binary.BigEndian.Uint32(buf[0:4]),
		FdCreator:   binary.BigEndian.Uint32(buf[4:8]),
		FdFlags:     binary.BigEndian.Uint16(buf[8:10]),
		FdLocationV: int16(binary.BigEndian.Uint16(buf[10:12])),
		FdLocationH: int16(binary.BigEndian.Uint16(buf[12:14])),
		Opaque:      int16(binary.BigEndian.Uint16(buf[14:16])),
	}, nil
}

// CatalogFolderSize is the on-disk size of a CatalogFolder record.
const CatalogFolderSize = 2 + 2 + 4 + 4 + 4*5 + 16 + 16 + 16 + 4 + 4

// DecodeCatalogFolder decodes a folder leaf record. finderInfo is
// carried as opaque bytes, matching swap_FndrOpaqueInfo's no-op.
func DecodeCatalogFolder(buf []byte) (types.CatalogFolder, error) {
	if err := need(buf, CatalogFolderSize, "catalog folder record"); err != nil {
		return types.CatalogFolder{}, err
	}
	var f types.CatalogFolder
	f.RecordType = binary.BigEndian.Uint16(buf[0:2])
	f.Flags = binary.BigEndian.Uint16(buf[2:4])
	f.Valence = binary.BigEndian.Uint32(buf[4:8])
	f.FolderID = binary.BigEndian.Uint32(buf[8:12])
	f.CreateDate = binary.BigEndian.Uint32(buf[12:16])
	f.ContentModDate = binary.BigEndian.Uint32(buf[16:20])
	f.AttributeModDate = binary.BigEndian.Uint32(buf[20:24])
	f.AccessDate = binary.BigEndian.Uint32(buf[24:28])
	f.BackupDate = binary.BigEndian.Uint32(buf[28:32])
	bsd, err := DecodeBSDInfo(buf[32:48])
	if err != nil {
		return types.CatalogFolder{}, err
	}
	f.BSD = bsd
	userInfo, err := DecodeFndrDirInfo(buf[48:64])
	if err != nil {
		return types.CatalogFolder{}, err
	}
	f.UserInfo = userInfo
	copy(f.FinderInfo[:], buf[64:80])
	f.TextEncoding = binary.BigEndian.Uint32(buf[80:84])
	f.FolderCount = binary.BigEndian.Uint32(buf[84:88])
	return f, nil
}

// CatalogFileSize is the on-disk size of a CatalogFile record.
const CatalogFileSize = 2 + 2 + 4 + 4 + 4*5 + 16 + 16 + 16 + 4 + 4 + ForkDataSize*2

// DecodeCatalogFile decodes a file leaf record, including its data
// and resource fork descriptors.
func DecodeCatalogFile(buf []byte) (types.CatalogFile, error) {
	if err := need(buf, CatalogFileSize, "catalog file record"); err != nil {
		return types.CatalogFile{}, err
	}
	var f types.CatalogFile
	f.RecordType = binary.BigEndian.Uint16(buf[0:2])
	f.Flags = binary.BigEndian.Uint16(buf[2:4])
	f.Reserved1 = binary.BigEndian.Uint32(buf[4:8])
	f.FileID = binary.BigEndian.Uint32(buf[8:12])
	f.CreateDate = binary.BigEndian.Uint32(buf[12:16])
	f.ContentModDate = binary.BigEndian.Uint32(buf[16:20])
	f.AttributeModDate = binary.BigEndian.Uint32(buf[20:24])
	f.AccessDate = binary.BigEndian.Uint32(buf[24:28])
	f.BackupDate = binary.BigEndian.Uint32(buf[28:32])
	bsd, err := DecodeBSDInfo(buf[32:48])
	if err != nil {
		return types.CatalogFile{}, err
	}
	f.BSD = bsd
	userInfo, err := DecodeFndrFileInfo(buf[48:64])
	if err != nil {
		return types.CatalogFile{}, err
	}
	f.UserInfo = userInfo
	copy(f.FinderInfo[:], buf[64:80])
	f.TextEncoding = binary.BigEndian.Uint32(buf[80:84])
	f.Reserved2 = binary.BigEndian.Uint32(buf[84:88])
	off := 88
	dataFork, err := DecodeForkData(buf[off : off+ForkDataSize])
	if err != nil {
		return types.CatalogFile{}, err
	}
	f.DataFork = dataFork
	off += ForkDataSize
	rsrcFork, err := DecodeForkData(buf[off : off+ForkDataSize])
	if err != nil {
		return types.CatalogFile{}, err
	}
	f.ResourceFork = rsrcFork
	return f, nil
}

// DecodeCatalogThread decodes a folder-thread or file-thread record.
// nodeName is decoded by DecodeHFSUniStr255, which converts each
// big-endian code unit to its host-order value.
func DecodeCatalogThread(buf []byte) (types.CatalogThread, error) {
	if err := need(buf, 10, "catalog thread record"); err != nil {
		return types.CatalogThread{}, err
	}
	var t types.CatalogThread
	t.RecordType = binary.BigEndian.Uint16(buf[0:2])
	t.Reserved = binary.BigEndian.Uint32(buf[2:6])
	t.ParentID = binary.BigEndian.Uint32(buf[6:10])
	name, _, err := DecodeHFSUniStr255(buf[10:])
	if err != nil {
		return types.CatalogThread{}, err
	}
	t.NodeName = name
	return t, nil
}
