package endian

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// DecodeBTNodeDescriptor decodes the 14-byte descriptor at the start
// of a B-tree node.
func DecodeBTNodeDescriptor(buf []byte) (types.BTNodeDescriptor, error) {
	if err := need(buf, types.BTNodeDescriptorSize, "node descriptor"); err != nil {
		return types.BTNodeDescriptor{}, err
	}
	return types.BTNodeDescriptor{
		FLink:      binary.BigEndian.Uint32(buf[0:4]),
		BLink:      binary.BigEndian.Uint32(buf[4:8]),
		Kind:       int8(buf[8]),
		Height:     buf[9],
		NumRecords: binary.BigEndian.Uint16(buf[10:12]),
		Reserved:   binary.BigEndian.Uint16(buf[12:14]),
	}, nil
}

// DecodeBTHeaderRec decodes the fixed header record stored as record
// 0 of a B-tree's header node.
func DecodeBTHeaderRec(buf []byte) (types.BTHeaderRec, error) {
	if err := need(buf, types.BTHeaderRecSize, "btree header record"); err != nil {
		return types.BTHeaderRec{}, err
	}
	var h types.BTHeaderRec
	h.TreeDepth = binary.BigEndian.Uint16(buf[0:2])
	h.RootNode = binary.BigEndian.Uint32(buf[2:6])
	h.LeafRecords = binary.BigEndian.Uint32(buf[6:10])
	h.FirstLeafNode = binary.BigEndian.Uint32(buf[10:14])
	h.LastLeafNode = binary.BigEndian.Uint32(buf[14:18])
	h.NodeSize = binary.BigEndian.Uint16(buf[18:20])
	h.MaxKeyLength = binary.BigEndian.Uint16(buf[20:22])
	h.TotalNodes = binary.BigEndian.Uint32(buf[22:26])
	h.FreeNodes = binary.BigEndian.Uint32(buf[26:30])
	h.Reserved1 = binary.BigEndian.Uint16(buf[30:32])
	h.ClumpSize = binary.BigEndian.Uint32(buf[32:36])
	h.BTreeType = buf[36]
	h.KeyCompareType = buf[37]
	h.Attributes = binary.BigEndian.Uint32(buf[38:42])
	return h, nil
}

// DecodeHFSUniStr255 decodes a Pascal-style Unicode string: a 16-bit
// length followed by that many big-endian UTF-16 code units. Both the
// length and every code unit are decoded into host-order values, so
// the catalog comparators in internal/btree compare numeric code
// units.
func DecodeHFSUniStr255(buf []byte) (types.HFSUniStr255, int, error) {
	if err := need(buf, 2, "unicode string length"); err != nil {
		return types.HFSUniStr255{}, 0, err
	}
	var s types.HFSUniStr255
	s.Length = binary.BigEndian.Uint16(buf[0:2])
	if int(s.Length) > 255 {
		return types.HFSUniStr255{}, 0, herr.Newf(herr.Malformed, "unicode string length %d exceeds 255", s.Length)
	}
	need_ := 2 + int(s.Length)*2
	if err := need(buf, need_, "unicode string data"); err != nil {
		return types.HFSUniStr255{}, 0, err
	}
	for i := 0; i < int(s.Length); i++ {
		s.Unicode[i] = binary.BigEndian.Uint16(buf[2+i*2 : 4+i*2])
	}
	return s, need_, nil
}

// DecodeCatalogKey decodes a catalog key and returns the number of
// bytes it occupied, rounded up to an even boundary as the on-disk
// format requires (swap_BTreeNode rounds key_length up by one when odd
// before locating the record payload that follows it).
func DecodeCatalogKey(buf []byte) (types.CatalogKey, int, error) {
	if err := need(buf, 6, "catalog key"); err != nil {
		return types.CatalogKey{}, 0, err
	}
	var k types.CatalogKey
	k.KeyLength = binary.BigEndian.Uint16(buf[0:2])
	k.ParentID = binary.BigEndian.Uint32(buf[2:6])
	name, nameLen, err := DecodeHFSUniStr255(buf[6:])
	if err != nil {
		return types.CatalogKey{}, 0, err
	}
	k.NodeName = name
	total := 6 + nameLen
	return k, total, nil
}

// KeyRecordSpan rounds a decoded key-length field up to the next even
// number of bytes, matching the original's "if (key_length % 2)
// key_length++" before it seeks past the key to the record payload.
// The two bytes of the length field itself are added separately by
// callers, since different key kinds prefix the length differently.
func KeyRecordSpan(keyLength uint16) int {
	n := int(keyLength)
	if n%2 != 0 {
		n++
	}
	return n
}

// DecodeExtentKey decodes an extents-overflow key.
func DecodeExtentKey(buf []byte) (types.ExtentKey, error) {
	if err := need(buf, 12, "extent key"); err != nil {
		return types.ExtentKey{}, err
	}
	return types.ExtentKey{
		KeyLength:  binary.BigEndian.Uint16(buf[0:2]),
		ForkType:   buf[2],
		Pad:        buf[3],
		FileID:     binary.BigEndian.Uint32(buf[4:8]),
		StartBlock: binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// DecodeExtentRecord decodes the eight extent descriptors making up
// one extents-overflow record.
func DecodeExtentRecord(buf []byte) (types.ExtentRecord, error) {
	if err := need(buf, types.ExtentDensity*8, "extent record"); err != nil {
		return types.ExtentRecord{}, err
	}
	var rec types.ExtentRecord
	for i := 0; i < types.ExtentDensity; i++ {
		ext, err := DecodeExtentDescriptor(buf[i*8 : i*8+8])
		if err != nil {
			return types.ExtentRecord{}, err
		}
		rec[i] = ext
	}
	return rec, nil
}
