package partition

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

const (
	mbrSize          = 512
	mbrPartitionsOff = 446
	mbrEntrySize     = 16
	mbrSignatureOff  = 510
)

// MBRTest reports whether src carries the fixed 0x55AA signature at
// byte offset 510, the same test mbr_test performs.
func MBRTest(src device.Source) (bool, error) {
	buf := make([]byte, mbrSize)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return false, herr.Newf(herr.IOError, "reading mbr: %v", err)
	}
	return buf[mbrSignatureOff] == 0x55 && buf[mbrSignatureOff+1] == 0xAA, nil
}

// MBRLoad decodes the four primary partition table entries, skipping
// unused (type 0) slots, matching mbr_load's FOR_UNTIL(i, 4) loop.
// MBR fields are always little-endian regardless of this module's
// big-endian HFS Plus decoding elsewhere.
func MBRLoad(src device.Source, blockSize uint32) ([]Entry, error) {
	buf := make([]byte, mbrSize)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return nil, herr.Newf(herr.IOError, "reading mbr: %v", err)
	}

	var entries []Entry
	for i := 0; i < 4; i++ {
		rec := buf[mbrPartitionsOff+i*mbrEntrySize:]
		ptype := rec[4]
		if ptype == 0 {
			continue
		}
		firstLBA := binary.LittleEndian.Uint32(rec[8:12])
		sectorCount := binary.LittleEndian.Uint32(rec[12:16])

		name, hint := MBRTypeName(ptype)
		entries = append(entries, Entry{
			Index:  i,
			Offset: int64(firstLBA) * int64(blockSize),
			Length: int64(sectorCount) * int64(blockSize),
			Hint:   hint,
			Name:   name,
		})
	}
	return entries, nil
}

// mbrType names the MBR partition type codes this inspector cares
// about (empty, Apple HFS, GPT protective, EFI system, Linux and
// NTFS/exFAT), carried forward from mbr_partition_types.
var mbrType = map[byte]struct {
	name string
	hint Hint
}{
	0x00: {"empty", HintIgnore},
	0xAF: {"Apple HFS", HintHFS},
	0xEE: {"GPT protective", HintIgnore},
	0xEF: {"EFI system", HintEFI},
	0x83: {"Linux", HintUnknown},
	0x07: {"NTFS/exFAT", HintUnknown},
}

// MBRTypeName looks up a partition type byte's display name and
// content hint, carried forward from mbr_partition_type_str /
// mbr_partition_types. Unrecognized codes report "unknown".
func MBRTypeName(t byte) (name string, hint Hint) {
	if e, ok := mbrType[t]; ok {
		return e.name, e.hint
	}
	return "unknown", HintUnknown
}
