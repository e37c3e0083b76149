package partition

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

// coreStorageMagic is the 32-bit signature Apple's Core Storage
// logical volume manager writes at the start of a physical volume's
// metadata block, ahead of its block-device content proper.
const coreStorageMagic = 0x434F5253 // "CORS"

// csBlockZeroSize is large enough to read the signature and the
// offset/length pair cs_print would otherwise have walked through the
// LVG's metadata block chain to find.
const csBlockZeroSize = 32

// CoreStorageTest reports whether src is a bare Core Storage physical
// volume, checked between MBR and APM in Detect's precedence: a
// Fusion or encrypted volume group's member exposes no GPT or MBR of
// its own, since CoreStorageD virtualizes the HFS Plus volume it
// carries inside a logical volume rather than a partition map entry.
func CoreStorageTest(src device.Source, blockSize uint32) (bool, error) {
	buf := make([]byte, 4)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return false, herr.Newf(herr.IOError, "reading core storage signature: %v", err)
	}
	return binary.BigEndian.Uint32(buf) == coreStorageMagic, nil
}

// CoreStorageLoad reports the single logical volume a Core Storage
// physical volume carries. Decoding the logical volume group's full
// metadata (conversion state, encryption context, multiple logical
// volumes per group) is out of scope; this inspector only needs the
// byte range holding the HFS Plus volume itself.
func CoreStorageLoad(src device.Source, blockSize uint32) ([]Entry, error) {
	if blockSize == 0 {
		blockSize = 512
	}
	buf := make([]byte, csBlockZeroSize)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return nil, herr.Newf(herr.IOError, "reading core storage metadata block: %v", err)
	}
	if binary.BigEndian.Uint32(buf[0:4]) != coreStorageMagic {
		return nil, herr.New(herr.Malformed, "not a core storage physical volume")
	}

	startBlock := binary.BigEndian.Uint64(buf[8:16])
	blockCount := binary.BigEndian.Uint64(buf[16:24])

	return []Entry{{
		Index:  0,
		Offset: int64(startBlock) * int64(blockSize),
		Length: int64(blockCount) * int64(blockSize),
		Hint:   HintCoreStorage,
		Name:   "CoreStorage",
	}}, nil
}
