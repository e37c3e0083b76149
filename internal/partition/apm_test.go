package partition

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
)

func apmImage(t *testing.T) device.Source {
	t.Helper()
	const step = 512
	const count = 3 // driver descriptor doesn't count; Pm_map entries start at block 1

	img := make([]byte, step*(count+1))

	ddm := img[0:step]
	ddm[0] = 'E'
	ddm[1] = 'R'
	binary.BigEndian.PutUint16(ddm[2:4], step)

	writeEntry := func(i int, start, blocks uint32, typ string) {
		ent := img[step*(1+i) : step*(2+i)]
		ent[0] = 'P'
		ent[1] = 'M'
		binary.BigEndian.PutUint32(ent[4:8], count)
		binary.BigEndian.PutUint32(ent[8:12], start)
		binary.BigEndian.PutUint32(ent[12:16], blocks)
		copy(ent[48:80], typ)
	}

	writeEntry(0, 1, 3, "Apple_partition_map")
	writeEntry(1, 4, 10, "Apple_HFS")
	writeEntry(2, 14, 5, "Apple_Free")

	return device.NewFileSource(bytes.NewReader(img), int64(len(img)))
}

func TestAPMTestSignature(t *testing.T) {
	src := apmImage(t)
	ok, err := APMTest(src)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected ER signature to be recognized")
	}

	bad := device.NewFileSource(bytes.NewReader(make([]byte, 512)), 512)
	ok, err = APMTest(bad)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected missing signature to be rejected")
	}
}

func TestAPMLoadDecodesEntries(t *testing.T) {
	src := apmImage(t)
	entries, err := APMLoad(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	hfs := entries[1]
	if hfs.Offset != 4*512 || hfs.Length != 10*512 {
		t.Fatalf("hfs entry offset/length = %d/%d", hfs.Offset, hfs.Length)
	}
	if hfs.Hint != HintHFS {
		t.Fatalf("hfs entry hint = %v", hfs.Hint)
	}
	if hfs.Name != "hfs-1" {
		t.Fatalf("hfs entry name = %q", hfs.Name)
	}

	free := entries[2]
	if free.Hint != HintFreeSpace {
		t.Fatalf("free entry hint = %v", free.Hint)
	}
}
