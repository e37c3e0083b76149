package partition

import (
	"encoding/binary"
	"io"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/google/uuid"
)

const (
	gptSignature      = "EFI PART"
	gptHeaderLBA      = 1
	gptEntrySizeKnown = 128
)

// GPTTest reports whether the GUID Partition Table header signature
// is present in the second logical block. GPT is checked ahead of
// MBR, matching sniff_and_print's precedence: a GPT disk also carries
// a protective MBR, so MBR must never be tested first.
func GPTTest(src device.Source, blockSize uint32) (bool, error) {
	if blockSize == 0 {
		blockSize = 512
	}
	buf := make([]byte, 8)
	n, err := src.ReadAt(buf, int64(gptHeaderLBA)*int64(blockSize))
	if err != nil {
		if err == io.EOF {
			// Source too short to hold a GPT header at LBA 1: not GPT.
			return false, nil
		}
		return false, herr.Newf(herr.IOError, "reading gpt header: %v", err)
	}
	return n == len(buf) && string(buf) == gptSignature, nil
}

// GPTLoad decodes the GPT partition entry array into Entry values,
// each one additionally exposing its type and unique GUIDs.
func GPTLoad(src device.Source, blockSize uint32) ([]Entry, error) {
	if blockSize == 0 {
		blockSize = 512
	}
	header := make([]byte, 128)
	if _, err := src.ReadAt(header, int64(gptHeaderLBA)*int64(blockSize)); err != nil {
		return nil, herr.Newf(herr.IOError, "reading gpt header: %v", err)
	}

	entryLBA := binary.LittleEndian.Uint64(header[72:80])
	numEntries := binary.LittleEndian.Uint32(header[80:84])
	entrySize := binary.LittleEndian.Uint32(header[84:88])
	if entrySize == 0 {
		entrySize = gptEntrySizeKnown
	}

	buf := make([]byte, uint64(numEntries)*uint64(entrySize))
	if _, err := src.ReadAt(buf, int64(entryLBA)*int64(blockSize)); err != nil {
		return nil, herr.Newf(herr.IOError, "reading gpt partition entries: %v", err)
	}

	var entries []Entry
	for i := uint32(0); i < numEntries; i++ {
		rec := buf[uint64(i)*uint64(entrySize):]
		typeGUID := guidFromGPTBytes(rec[0:16])
		if typeGUID == uuid.Nil {
			continue // unused entry
		}
		uniqueGUID := guidFromGPTBytes(rec[16:32])
		startLBA := binary.LittleEndian.Uint64(rec[32:40])
		endLBA := binary.LittleEndian.Uint64(rec[40:48])
		name := utf16leToString(rec[56:128])

		entries = append(entries, Entry{
			Index:      int(i),
			Offset:     int64(startLBA) * int64(blockSize),
			Length:     (int64(endLBA) - int64(startLBA) + 1) * int64(blockSize),
			Hint:       gptTypeHint(typeGUID),
			Name:       name,
			TypeGUID:   typeGUID,
			UniqueGUID: uniqueGUID,
		})
	}
	return entries, nil
}

// appleHFSTypeGUID is the well-known GPT partition type GUID for an
// Apple HFS/HFS Plus partition (48465300-0000-11AA-AA11-00306543ECAC).
var appleHFSTypeGUID = uuid.MustParse("48465300-0000-11AA-AA11-00306543ECAC")

// appleCoreStorageTypeGUID marks a logical volume group managed by
// Core Storage.
var appleCoreStorageTypeGUID = uuid.MustParse("53746F72-6167-11AA-AA11-00306543ECAC")

func gptTypeHint(g uuid.UUID) Hint {
	switch g {
	case appleHFSTypeGUID:
		return HintHFS
	case appleCoreStorageTypeGUID:
		return HintCoreStorage
	default:
		return HintUnknown
	}
}

// guidFromGPTBytes converts a 16-byte GPT-encoded GUID (the first
// three fields little-endian, the last eight bytes taken as-is) into
// a standard big-endian RFC 4122 UUID.
func guidFromGPTBytes(b []byte) uuid.UUID {
	var out [16]byte
	binary.BigEndian.PutUint32(out[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(out[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(out[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(out[8:16], b[8:16])
	u, _ := uuid.FromBytes(out[:])
	return u
}

func utf16leToString(b []byte) string {
	n := len(b) / 2
	runes := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		u := uint16(b[i*2]) | uint16(b[i*2+1])<<8
		if u == 0 {
			break
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}
