package btree

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/endian"
)

// NewExtentCompare builds the Compare used by the extents overflow
// B-tree: ordered by fork type, then file ID, then starting logical
// allocation block, exactly the field order of ExtentKey itself.
func NewExtentCompare() Compare {
	return func(a, b []byte) int {
		ka, err := endian.DecodeExtentKey(a)
		if err != nil {
			return 0
		}
		kb, err := endian.DecodeExtentKey(b)
		if err != nil {
			return 0
		}
		if ka.ForkType != kb.ForkType {
			if ka.ForkType < kb.ForkType {
				return -1
			}
			return 1
		}
		if ka.FileID != kb.FileID {
			if ka.FileID < kb.FileID {
				return -1
			}
			return 1
		}
		if ka.StartBlock != kb.StartBlock {
			if ka.StartBlock < kb.StartBlock {
				return -1
			}
			return 1
		}
		return 0
	}
}

// BuildExtentKey encodes a lookup key for the extents-overflow record
// continuing fileID/forkType starting at logical block startBlock.
func BuildExtentKey(fileID uint32, forkType uint8, startBlock uint32) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint16(buf[0:2], 10)
	buf[2] = forkType
	buf[3] = 0
	binary.BigEndian.PutUint32(buf[4:8], fileID)
	binary.BigEndian.PutUint32(buf[8:12], startBlock)
	return buf
}
