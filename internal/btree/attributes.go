package btree

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

// AttributeRecord is a located but only partially decoded attributes
// B-tree record: this inspector reports which file a record belongs
// to and its type tag, but decoding every inline/fork/extents payload
// variant is out of scope (see the internal/btree entry in DESIGN.md).
type AttributeRecord struct {
	FileID    uint32
	AttrType  uint32
	AttrName  string
	RawPayload []byte
}

// OpenAttributesTree opens the attributes B-tree stored in reader.
// Unlike the catalog tree, its ordering never depends on the volume's
// KeyCompareType, so a single-pass open suffices.
func OpenAttributesTree(reader Reader) (*Tree, error) {
	return Open(reader, NewAttributeCompare())
}

// NewAttributeCompare builds the Compare used by the attributes
// B-tree: ordered by file ID, then attribute name, then starting
// logical block. This order differs from AttributeKey's field order,
// which stores the starting block ahead of the name.
func NewAttributeCompare() Compare {
	return func(a, b []byte) int {
		ka, err := decodeAttributeKeyPrefix(a)
		if err != nil {
			return 0
		}
		kb, err := decodeAttributeKeyPrefix(b)
		if err != nil {
			return 0
		}
		if ka.fileID != kb.fileID {
			if ka.fileID < kb.fileID {
				return -1
			}
			return 1
		}
		if ka.name != kb.name {
			if ka.name < kb.name {
				return -1
			}
			return 1
		}
		if ka.startBlock != kb.startBlock {
			if ka.startBlock < kb.startBlock {
				return -1
			}
			return 1
		}
		return 0
	}
}

type attrKeyPrefix struct {
	fileID     uint32
	name       string
	startBlock uint32
}

func decodeAttributeKeyPrefix(buf []byte) (attrKeyPrefix, error) {
	if len(buf) < 14 {
		return attrKeyPrefix{}, herr.New(herr.Malformed, "attribute key too short")
	}
	fileID := binary.BigEndian.Uint32(buf[4:8])
	startBlock := binary.BigEndian.Uint32(buf[8:12])
	nameLen := binary.BigEndian.Uint16(buf[12:14])
	need := 14 + int(nameLen)*2
	if len(buf) < need {
		return attrKeyPrefix{}, herr.New(herr.Malformed, "attribute key name truncated")
	}
	runes := make([]rune, nameLen)
	for i := 0; i < int(nameLen); i++ {
		runes[i] = rune(binary.BigEndian.Uint16(buf[14+i*2 : 16+i*2]))
	}
	return attrKeyPrefix{fileID: fileID, name: string(runes), startBlock: startBlock}, nil
}

// DecodeAttributeRecord decodes the common prefix of an attributes
// leaf record: its type tag, and the file ID and name carried by key.
func DecodeAttributeRecord(key, payload []byte) (AttributeRecord, error) {
	k, err := decodeAttributeKeyPrefix(key)
	if err != nil {
		return AttributeRecord{}, err
	}
	if len(payload) < 4 {
		return AttributeRecord{}, herr.New(herr.Malformed, "attribute record too short for a type tag")
	}
	return AttributeRecord{
		FileID:     k.fileID,
		AttrType:   binary.BigEndian.Uint32(payload[0:4]),
		AttrName:   k.name,
		RawPayload: payload,
	}, nil
}
