package partition

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
)

func coreStorageImage(startBlock, blockCount uint64) device.Source {
	buf := make([]byte, csBlockZeroSize)
	binary.BigEndian.PutUint32(buf[0:4], coreStorageMagic)
	binary.BigEndian.PutUint64(buf[8:16], startBlock)
	binary.BigEndian.PutUint64(buf[16:24], blockCount)
	return device.NewFileSource(bytes.NewReader(buf), int64(len(buf)))
}

func TestCoreStorageTestSignature(t *testing.T) {
	src := coreStorageImage(0, 100)
	ok, err := CoreStorageTest(src, 512)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected core storage signature to be recognized")
	}

	bad := device.NewFileSource(bytes.NewReader(make([]byte, 32)), 32)
	ok, err = CoreStorageTest(bad, 512)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected missing signature to be rejected")
	}
}

func TestCoreStorageLoadDecodesRange(t *testing.T) {
	src := coreStorageImage(1, 2000)
	entries, err := CoreStorageLoad(src, 512)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Offset != 512 {
		t.Fatalf("offset = %d", e.Offset)
	}
	if e.Length != 2000*512 {
		t.Fatalf("length = %d", e.Length)
	}
	if e.Hint != HintCoreStorage {
		t.Fatalf("hint = %v", e.Hint)
	}
}
