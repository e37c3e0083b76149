package partition

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
)

func mbrImage(entries [][2]uint32, types_ []byte) device.Source {
	buf := make([]byte, mbrSize)
	for i, t := range types_ {
		off := mbrPartitionsOff + i*mbrEntrySize
		buf[off+4] = t
		if t == 0 {
			continue
		}
		binary.LittleEndian.PutUint32(buf[off+8:off+12], entries[i][0])
		binary.LittleEndian.PutUint32(buf[off+12:off+16], entries[i][1])
	}
	buf[mbrSignatureOff] = 0x55
	buf[mbrSignatureOff+1] = 0xAA
	return device.NewFileSource(bytes.NewReader(buf), int64(len(buf)))
}

func TestMBRTestSignature(t *testing.T) {
	src := mbrImage(nil, nil)
	ok, err := MBRTest(src)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected signature to be recognized")
	}

	bad := make([]byte, mbrSize)
	src2 := device.NewFileSource(bytes.NewReader(bad), int64(len(bad)))
	ok, err = MBRTest(src2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected missing signature to be rejected")
	}
}

func TestMBRLoadSkipsEmptySlots(t *testing.T) {
	src := mbrImage([][2]uint32{
		{0, 0},
		{2048, 409600},
		{0, 0},
		{0, 0},
	}, []byte{0x00, 0xAF, 0x00, 0x00})

	entries, err := MBRLoad(src, 512)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Index != 1 {
		t.Fatalf("index = %d", e.Index)
	}
	if e.Offset != 2048*512 {
		t.Fatalf("offset = %d", e.Offset)
	}
	if e.Length != 409600*512 {
		t.Fatalf("length = %d", e.Length)
	}
	if e.Hint != HintHFS {
		t.Fatalf("hint = %v", e.Hint)
	}
}

func TestMBRTypeNameUnknown(t *testing.T) {
	name, hint := MBRTypeName(0xFC)
	if name != "unknown" || hint != HintUnknown {
		t.Fatalf("got %q/%v", name, hint)
	}
}
