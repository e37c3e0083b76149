package partition

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

const (
	apmDriverDescriptorSize = 512
)

// APMTest reports whether src opens with an Apple Partition Map driver
// descriptor block ("ER" signature). Checked after MBR and Core
// Storage so a wrapped or Core-Storage-managed disk is never
// misreported as a bare APM volume.
func APMTest(src device.Source) (bool, error) {
	ddm := make([]byte, 2)
	if _, err := src.ReadAt(ddm, 0); err != nil {
		return false, herr.Newf(herr.IOError, "reading apm driver descriptor: %v", err)
	}
	return ddm[0] == 'E' && ddm[1] == 'R', nil
}

// APMLoad decodes the partition map entries that follow the driver
// descriptor block. Some CD-ROM authoring tools wrote a "shadow map"
// for ROMs that assumed 512-byte sectors even on 2048-byte media; when
// the shadow signature is present at byte 512, entries are read at a
// fixed 512-byte step rather than the block size the driver descriptor
// reports.
func APMLoad(src device.Source) ([]Entry, error) {
	ddm := make([]byte, apmDriverDescriptorSize+2)
	n, err := src.ReadAt(ddm, 0)
	if err != nil {
		return nil, herr.Newf(herr.IOError, "reading apm driver descriptor: %v", err)
	}
	if n < len(ddm) {
		return nil, herr.New(herr.Malformed, "apm driver descriptor block truncated")
	}

	blockSize := int64(binary.BigEndian.Uint16(ddm[2:4]))
	step := blockSize
	if ddm[512] == 'P' && ddm[513] == 'M' {
		step = 512
	}

	first := make([]byte, 8)
	if _, err := src.ReadAt(first, step); err != nil {
		return nil, herr.Newf(herr.IOError, "reading first apm entry: %v", err)
	}
	if first[0] != 'P' || first[1] != 'M' {
		return nil, herr.New(herr.Malformed, "corrupt apple partition map")
	}
	count := int64(binary.BigEndian.Uint32(first[4:8]))

	var entries []Entry
	ofeach := make(map[string]int)
	for i := int64(0); i < count; i++ {
		ent := make([]byte, 512)
		if _, err := src.ReadAt(ent, step*(1+i)); err != nil {
			return nil, herr.Newf(herr.IOError, "reading apm entry %d: %v", i, err)
		}
		if ent[0] != 'P' || ent[1] != 'M' {
			return nil, herr.Newf(herr.Malformed, "corrupt apple partition map entry %d", i)
		}

		startBlock := binary.BigEndian.Uint32(ent[8:12])
		blockCount := binary.BigEndian.Uint32(ent[12:16])
		partType, _, _ := strings.Cut(string(ent[48:80]), "\x00")

		if partType == "Apple_Free" {
			entries = append(entries, Entry{
				Index:  int(i),
				Offset: step * int64(startBlock),
				Length: step * int64(blockCount),
				Hint:   HintFreeSpace,
				Name:   partType,
			})
			continue
		}

		name := strings.ToLower(strings.TrimPrefix(partType, "Apple_"))
		ofeach[name]++
		label := name + "-" + strconv.Itoa(ofeach[name])

		entries = append(entries, Entry{
			Index:  int(i),
			Offset: step * int64(startBlock),
			Length: step * int64(blockCount),
			Hint:   apmTypeHint(partType),
			Name:   label,
		})
	}
	return entries, nil
}

func apmTypeHint(partType string) Hint {
	switch partType {
	case "Apple_HFS", "Apple_HFSX":
		return HintHFS
	case "Apple_Boot", "Apple_Driver43", "Apple_Driver_ATA", "Apple_Patches":
		return HintIgnore
	default:
		return HintUnknown
	}
}
