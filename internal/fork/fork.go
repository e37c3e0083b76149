// Package fork implements fork-level reads: turning a logical block
// or byte range request into the underlying volume's allocation
// blocks, resolving extents-overflow records when a fork's eight
// embedded extent descriptors aren't enough to cover it.
package fork

import (
	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/extent"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// MaxReadIterations bounds the fork-read loop. Exceeding it means the
// extent list and the requested range disagree in a way that can
// never converge; hfs_read_fork treats the equivalent C condition as
// fatal, this package returns herr.StuckTraversal instead. It is a
// package variable rather than a constant so that
// Config.MaxForkReadIterations can override it once at startup.
var MaxReadIterations = 2000

// OverflowResolver looks up the extents-overflow records continuing a
// fork beyond its embedded extents. internal/btree implements this so
// that fork can resolve overflow without importing btree's node/tree
// internals, and btree never needs to import fork.
type OverflowResolver interface {
	// ExtentsFor returns the extents of the overflow record for
	// (fileID, forkType) whose key starts at logical block afterBlock,
	// in ascending logical order, or none if there is no such record.
	// Fork calls it repeatedly, once per record, until the fork is
	// covered.
	ExtentsFor(fileID uint32, forkType uint8, afterBlock uint32) ([]types.ExtentDescriptor, error)
}

// Fork represents one fork (data or resource) of a file, or one of
// the HFS Plus special files addressed directly by CNID.
type Fork struct {
	volumeSource device.Source // the volume's own Source, block-addressed
	blockSize    uint32

	CNID        uint32
	ForkType    uint8
	LogicalSize uint64
	TotalBlocks uint32

	extents *extent.List
}

// CNID validity for hfsfork_get_special: the bad-block file (5) has
// no retrievable fork (herr.UnsupportedFilesystem); anything else not
// in this table isn't a special file at all (herr.InvalidArgument).
func specialForkData(vh *types.VolumeHeader, cnid uint32) (types.ForkData, bool, error) {
	switch cnid {
	case types.CNIDExtentsFile:
		return vh.ExtentsFile, true, nil
	case types.CNIDCatalogFile:
		return vh.CatalogFile, true, nil
	case types.CNIDBadBlockFile:
		return types.ForkData{}, false, herr.New(herr.UnsupportedFilesystem, "the bad block file has no retrievable fork")
	case types.CNIDAllocationFile:
		return vh.AllocationFile, true, nil
	case types.CNIDStartupFile:
		return vh.StartupFile, true, nil
	case types.CNIDAttributesFile:
		return vh.AttributesFile, true, nil
	default:
		return types.ForkData{}, false, herr.Newf(herr.InvalidArgument, "cnid %d does not name a special file", cnid)
	}
}

// OpenSpecial opens one of the HFS Plus special files (extents
// overflow, catalog, allocation, startup, attributes) directly from
// the volume header, without going through a catalog lookup.
func OpenSpecial(volumeSource device.Source, blockSize uint32, vh *types.VolumeHeader, cnid uint32, overflow OverflowResolver) (*Fork, error) {
	fd, ok, err := specialForkData(vh, cnid)
	if err != nil {
		return nil, err
	}
	_ = ok
	return open(volumeSource, blockSize, fd, types.ForkTypeData, cnid, overflow)
}

// Open builds a Fork from a catalog file record's already-decoded
// ForkData (its data fork or resource fork).
func Open(volumeSource device.Source, blockSize uint32, fd types.ForkData, forkType uint8, fileID uint32, overflow OverflowResolver) (*Fork, error) {
	return open(volumeSource, blockSize, fd, forkType, fileID, overflow)
}

func open(volumeSource device.Source, blockSize uint32, fd types.ForkData, forkType uint8, fileID uint32, overflow OverflowResolver) (*Fork, error) {
	f := &Fork{
		volumeSource: volumeSource,
		blockSize:    blockSize,
		CNID:         fileID,
		ForkType:     forkType,
		LogicalSize:  fd.LogicalSize,
		TotalBlocks:  fd.TotalBlocks,
		extents:      extent.New(),
	}
	for _, e := range fd.Extents {
		f.extents.Append(e)
	}

	// The extents-overflow file's own fork is never itself subject to
	// overflow resolution: resolving it would require reading the
	// extents-overflow B-tree, which requires this very fork. Its
	// eight embedded extents are assumed to always be sufficient, the
	// same assumption every consumer of this format makes implicitly
	// by never special-casing CNID 3 in their extent-fetch routines.
	if fileID == types.CNIDExtentsFile {
		if !f.extents.Covers(uint64(f.TotalBlocks)) {
			return nil, herr.New(herr.Malformed, "extents overflow file's own embedded extents do not cover its reported size")
		}
		return f, nil
	}

	if !f.extents.Covers(uint64(f.TotalBlocks)) {
		if overflow == nil {
			return nil, herr.Newf(herr.Malformed, "fork for cnid %d needs extents-overflow records but none were supplied", fileID)
		}
		if err := f.resolveOverflow(overflow); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (f *Fork) resolveOverflow(overflow OverflowResolver) error {
	for !f.extents.Covers(uint64(f.TotalBlocks)) {
		covered := uint32(f.extents.TotalBlocks())
		recs, err := overflow.ExtentsFor(f.CNID, f.ForkType, covered)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return herr.Newf(herr.Malformed, "fork for cnid %d covers %d of %d blocks with no further extents-overflow records", f.CNID, covered, f.TotalBlocks)
		}
		before := f.extents.TotalBlocks()
		for _, e := range recs {
			f.extents.Append(e)
		}
		if f.extents.TotalBlocks() == before {
			return herr.Newf(herr.Malformed, "extents-overflow records for cnid %d made no progress covering %d blocks", f.CNID, f.TotalBlocks)
		}
	}
	return nil
}

// ReadBlocks reads blockCount logical blocks of this fork starting at
// startBlock into a freshly allocated buffer. A request that runs
// past the end of the fork is silently clamped to what remains,
// matching hfs_read_fork; the returned buffer's length always reflects
// the (possibly clamped) intended read, not strictly "bytes copied",
// since a short final block is still counted whole.
func (f *Fork) ReadBlocks(startBlock uint32, blockCount uint32) ([]byte, error) {
	if blockCount < 1 {
		return nil, herr.Newf(herr.InvalidArgument, "invalid request size: %d blocks", blockCount)
	}
	if uint64(startBlock) > uint64(f.TotalBlocks) {
		return nil, herr.Newf(herr.InvalidArgument, "request would begin beyond the end of the fork (start block %d, fork has %d blocks)", startBlock, f.TotalBlocks)
	}

	requestCount := blockCount
	if uint64(startBlock)+uint64(requestCount) >= uint64(f.TotalBlocks) {
		requestCount = f.TotalBlocks - startBlock
		if requestCount < 1 {
			requestCount = 1
		}
	}

	out := make([]byte, uint64(requestCount)*uint64(f.blockSize))

	remainingStart := uint64(startBlock)
	remainingCount := uint64(requestCount)
	written := uint64(0)

	for iter := 0; remainingCount != 0; iter++ {
		if iter > MaxReadIterations {
			return nil, herr.Newf(herr.StuckTraversal, "fork read for cnid %d did not converge after %d iterations", f.CNID, MaxReadIterations)
		}

		physStart, runLen, err := f.extents.Find(remainingStart)
		if err != nil {
			return nil, err
		}
		if runLen == 0 {
			continue
		}
		if runLen > remainingCount {
			runLen = remainingCount
		}

		buf, err := device.ReadBlocksAt(f.volumeSource, f.blockSize, physStart, uint32(runLen))
		if err != nil {
			return nil, err
		}
		copy(out[written:], buf)
		written += uint64(len(buf))

		remainingCount -= runLen
		remainingStart += runLen
	}

	return out, nil
}

// ReadRange reads size bytes of this fork's logical byte stream
// starting at byte offset offset. It returns fewer than size bytes,
// with no error, if offset+size runs past the fork's logical size; it
// returns 0 if offset is already at or past the end.
func (f *Fork) ReadRange(buf []byte, size int, offset uint64) (int, error) {
	if offset > f.LogicalSize {
		return 0, nil
	}
	if offset+uint64(size) > f.LogicalSize {
		size = int(f.LogicalSize - offset)
	}
	if size <= 0 {
		return 0, nil
	}

	startBlock := offset / uint64(f.blockSize)
	byteOffset := offset % uint64(f.blockSize)
	blockCount := (uint64(size) + byteOffset) / uint64(f.blockSize)
	if (uint64(size)+byteOffset)%uint64(f.blockSize) != 0 {
		blockCount++
	}

	scratch, err := f.ReadBlocks(uint32(startBlock), uint32(blockCount))
	if err != nil {
		return 0, err
	}
	n := copy(buf, scratch[byteOffset:uint64(byteOffset)+uint64(size)])
	return n, nil
}
