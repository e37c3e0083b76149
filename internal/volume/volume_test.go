package volume

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

func plainHFSPlusImage(totalBlocks, blockSize uint32) []byte {
	img := make([]byte, 1024+512)
	vh := img[1024:]
	binary.BigEndian.PutUint16(vh[0:2], types.SigHFSPlus)
	binary.BigEndian.PutUint32(vh[40:44], blockSize)
	binary.BigEndian.PutUint32(vh[44:48], totalBlocks)
	return img
}

func TestDetectPlainHFSPlus(t *testing.T) {
	img := plainHFSPlusImage(1000, 4096)
	src := device.NewFileSource(bytes.NewReader(img), int64(len(img)))
	kind, err := Detect(src)
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindHFSPlus {
		t.Fatalf("kind = %v", kind)
	}
}

func TestAttachPlainHFSPlus(t *testing.T) {
	img := plainHFSPlusImage(1000, 4096)
	src := device.NewFileSource(bytes.NewReader(img), int64(len(img)))
	vol, err := Attach(src)
	if err != nil {
		t.Fatal(err)
	}
	if vol.Header.TotalBlocks != 1000 || vol.Header.BlockSize != 4096 {
		t.Fatalf("got %+v", vol.Header)
	}
	if vol.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", vol.Offset())
	}
}

func TestAttachRejectsPlainHFS(t *testing.T) {
	img := make([]byte, 1024+512)
	binary.BigEndian.PutUint16(img[1024:1026], types.SigHFS)
	src := device.NewFileSource(bytes.NewReader(img), int64(len(img)))
	_, err := Attach(src)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, herr.UnsupportedFilesystem) {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func TestAttachRejectsUnknown(t *testing.T) {
	img := make([]byte, 1024+512)
	src := device.NewFileSource(bytes.NewReader(img), int64(len(img)))
	_, err := Attach(src)
	if !errors.Is(err, herr.WrongFilesystem) {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func TestAttachWrappedHFSPlusComputesOffset(t *testing.T) {
	// Build an MDB claiming a wrapped HFS Plus volume embedded at
	// allocation block start = 3 (x512) + embed start block 2 * alBlkSiz 4096.
	mdb := make([]byte, 1024+endian_MDBSize())
	binary.BigEndian.PutUint16(mdb[1024:1026], types.SigHFS)
	binary.BigEndian.PutUint32(mdb[1024+20:1024+24], 4096) // drAlBlkSiz
	binary.BigEndian.PutUint16(mdb[1024+28:1024+30], 3)    // drAlBlSt
	binary.BigEndian.PutUint16(mdb[1024+124:1024+126], types.SigHFSPlus)
	binary.BigEndian.PutUint16(mdb[1024+126:1024+128], 2) // embed extent start block

	wantOffset := int64(3)*512 + int64(2)*4096

	full := make([]byte, int(wantOffset)+1024+512)
	copy(full, mdb)
	vh := full[wantOffset+1024:]
	binary.BigEndian.PutUint16(vh[0:2], types.SigHFSPlus)
	binary.BigEndian.PutUint32(vh[40:44], 512)
	binary.BigEndian.PutUint32(vh[44:48], 10)

	src := device.NewFileSource(bytes.NewReader(full), int64(len(full)))
	vol, err := Attach(src)
	if err != nil {
		t.Fatal(err)
	}
	if vol.Offset() != wantOffset {
		t.Fatalf("offset = %d, want %d", vol.Offset(), wantOffset)
	}
	if vol.Header.TotalBlocks != 10 {
		t.Fatalf("total blocks = %d", vol.Header.TotalBlocks)
	}
}

func endian_MDBSize() int { return 130 }
