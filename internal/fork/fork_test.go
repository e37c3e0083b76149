package fork

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

func blockFilledSource(blockSize uint32, numBlocks uint32) device.Source {
	data := make([]byte, uint64(blockSize)*uint64(numBlocks))
	for b := uint32(0); b < numBlocks; b++ {
		for i := uint32(0); i < blockSize; i++ {
			data[uint64(b)*uint64(blockSize)+uint64(i)] = byte(b)
		}
	}
	return device.NewFileSource(bytes.NewReader(data), int64(len(data)))
}

func TestForkReadBlocksWithinSingleExtent(t *testing.T) {
	src := blockFilledSource(512, 100)
	fd := types.ForkData{
		LogicalSize: 512 * 10,
		TotalBlocks: 10,
	}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 20, BlockCount: 10}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.ReadBlocks(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 512*3 {
		t.Fatalf("len = %d", len(buf))
	}
	// Logical block 2 of the fork maps to physical block 22.
	if buf[0] != 22 {
		t.Fatalf("first byte = %d, want 22", buf[0])
	}
}

func TestForkReadBlocksClampsPastEnd(t *testing.T) {
	src := blockFilledSource(512, 100)
	fd := types.ForkData{LogicalSize: 512 * 5, TotalBlocks: 5}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 5}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.ReadBlocks(3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 512*2 {
		t.Fatalf("len = %d, want clamped to 2 blocks", len(buf))
	}
}

func TestForkReadBlocksStartPastEndFails(t *testing.T) {
	src := blockFilledSource(512, 10)
	fd := types.ForkData{LogicalSize: 512 * 5, TotalBlocks: 5}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 5}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.ReadBlocks(6, 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestForkReadRangeUnalignedOffset(t *testing.T) {
	src := blockFilledSource(512, 10)
	fd := types.ForkData{LogicalSize: 512 * 4, TotalBlocks: 4}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 4}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 10)
	n, err := f.ReadRange(buf, 10, 510)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("n = %d", n)
	}
	// bytes 510-511 come from block 0 (value 0), bytes 512-519 from block 1 (value 1).
	if buf[0] != 0 || buf[1] != 0 || buf[2] != 1 {
		t.Fatalf("buf = %v", buf)
	}
}

func TestForkReadRangeClampsToLogicalSize(t *testing.T) {
	src := blockFilledSource(512, 10)
	fd := types.ForkData{LogicalSize: 100, TotalBlocks: 1}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 1}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 200)
	n, err := f.ReadRange(buf, 200, 50)
	if err != nil {
		t.Fatal(err)
	}
	if n != 50 {
		t.Fatalf("n = %d, want 50", n)
	}
}

func TestForkReadRangePastEndReturnsZero(t *testing.T) {
	src := blockFilledSource(512, 10)
	fd := types.ForkData{LogicalSize: 100, TotalBlocks: 1}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 1}

	f, err := Open(src, 512, fd, types.ForkTypeData, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 10)
	n, err := f.ReadRange(buf, 10, 200)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestOpenFailsWithoutOverflowResolverWhenNeeded(t *testing.T) {
	src := blockFilledSource(512, 10)
	fd := types.ForkData{LogicalSize: 512 * 20, TotalBlocks: 20}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 5}

	if _, err := Open(src, 512, fd, types.ForkTypeData, 100, nil); err == nil {
		t.Fatal("expected error when overflow is needed but not supplied")
	}
}

type fakeOverflow struct {
	recs []types.ExtentDescriptor
}

func (o *fakeOverflow) ExtentsFor(fileID uint32, forkType uint8, afterBlock uint32) ([]types.ExtentDescriptor, error) {
	return o.recs, nil
}

func TestOpenResolvesOverflow(t *testing.T) {
	src := blockFilledSource(512, 100)
	fd := types.ForkData{LogicalSize: 512 * 15, TotalBlocks: 15}
	fd.Extents[0] = types.ExtentDescriptor{StartBlock: 0, BlockCount: 5}

	overflow := &fakeOverflow{recs: []types.ExtentDescriptor{{StartBlock: 50, BlockCount: 10}}}
	f, err := Open(src, 512, fd, types.ForkTypeData, 100, overflow)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.ReadBlocks(6, 1)
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 51 {
		t.Fatalf("byte = %d, want 51", buf[0])
	}
}
