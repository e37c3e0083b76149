// Package endian decodes the big-endian on-disk structures in
// internal/types into their host-native Go values. Every Decode
// function reads a fixed byte layout with encoding/binary and returns
// an ordinary Go value; there is no in-place buffer mutation and no
// sentinel re-swap guard, since a freshly decoded value is immutable
// by construction and can never be swapped twice.
package endian

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// need reports whether buf has at least n bytes, returning a Malformed
// error naming what was being decoded otherwise.
func need(buf []byte, n int, what string) error {
	if len(buf) < n {
		return herr.Newf(herr.Malformed, "%s: need %d bytes, have %d", what, n, len(buf))
	}
	return nil
}

// DecodeExtentDescriptor decodes one 8-byte extent descriptor.
func DecodeExtentDescriptor(buf []byte) (types.ExtentDescriptor, error) {
	if err := need(buf, 8, "extent descriptor"); err != nil {
		return types.ExtentDescriptor{}, err
	}
	return types.ExtentDescriptor{
		StartBlock: binary.BigEndian.Uint32(buf[0:4]),
		BlockCount: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// ForkDataSize is the on-disk size of a ForkData record.
const ForkDataSize = 8 + 4 + 4 + types.ExtentDensity*8

// DecodeForkData decodes a fork's logical size, clump size, total
// block count, and its eight embedded extent descriptors.
func DecodeForkData(buf []byte) (types.ForkData, error) {
	if err := need(buf, ForkDataSize, "fork data"); err != nil {
		return types.ForkData{}, err
	}
	var fd types.ForkData
	fd.LogicalSize = binary.BigEndian.Uint64(buf[0:8])
	fd.ClumpSize = binary.BigEndian.Uint32(buf[8:12])
	fd.TotalBlocks = binary.BigEndian.Uint32(buf[12:16])
	off := 16
	for i := 0; i < types.ExtentDensity; i++ {
		ext, err := DecodeExtentDescriptor(buf[off : off+8])
		if err != nil {
			return types.ForkData{}, err
		}
		fd.Extents[i] = ext
		off += 8
	}
	return fd, nil
}

// VolumeHeaderSize is the on-disk size of the HFS Plus volume header.
const VolumeHeaderSize = 512

// DecodeVolumeHeader decodes the 512-byte HFS Plus / HFSX volume
// header. Finder info is carried through as opaque bytes and is never
// byte-swapped, matching swap_HFSPlusVolumeHeader's explicit skip of
// that field.
func DecodeVolumeHeader(buf []byte) (types.VolumeHeader, error) {
	if err := need(buf, VolumeHeaderSize, "volume header"); err != nil {
		return types.VolumeHeader{}, err
	}
	var vh types.VolumeHeader
	vh.Signature = binary.BigEndian.Uint16(buf[0:2])
	vh.Version = binary.BigEndian.Uint16(buf[2:4])
	vh.Attributes = binary.BigEndian.Uint32(buf[4:8])
	vh.LastMountedVersion = binary.BigEndian.Uint32(buf[8:12])
	vh.JournalInfoBlock = binary.BigEndian.Uint32(buf[12:16])

	vh.CreateDate = binary.BigEndian.Uint32(buf[16:20])
	vh.ModifyDate = binary.BigEndian.Uint32(buf[20:24])
	vh.BackupDate = binary.BigEndian.Uint32(buf[24:28])
	vh.CheckedDate = binary.BigEndian.Uint32(buf[28:32])

	vh.FileCount = binary.BigEndian.Uint32(buf[32:36])
	vh.FolderCount = binary.BigEndian.Uint32(buf[36:40])

	vh.BlockSize = binary.BigEndian.Uint32(buf[40:44])
	vh.TotalBlocks = binary.BigEndian.Uint32(buf[44:48])
	vh.FreeBlocks = binary.BigEndian.Uint32(buf[48:52])

	vh.NextAllocation = binary.BigEndian.Uint32(buf[52:56])
	vh.RsrcClumpSize = binary.BigEndian.Uint32(buf[56:60])
	vh.DataClumpSize = binary.BigEndian.Uint32(buf[60:64])
	vh.NextCatalogID = binary.BigEndian.Uint32(buf[64:68])

	vh.WriteCount = binary.BigEndian.Uint32(buf[68:72])
	vh.EncodingsBitmap = binary.BigEndian.Uint64(buf[72:80])

	copy(vh.FinderInfo[:], buf[80:112])

	off := 112
	forks := []*types.ForkData{&vh.AllocationFile, &vh.ExtentsFile, &vh.CatalogFile, &vh.AttributesFile, &vh.StartupFile}
	for _, f := range forks {
		fd, err := DecodeForkData(buf[off : off+ForkDataSize])
		if err != nil {
			return types.VolumeHeader{}, err
		}
		*f = fd
		off += ForkDataSize
	}
	return vh, nil
}

// MasterDirectoryBlockSize is how many leading bytes of a classic HFS
// Master Directory Block this package reads: enough to cover
// drEmbedExtent at offset 126. The real MDB extends to 162 bytes with
// extents-overflow and catalog clump/extent fields this reader never
// needs to locate a wrapped HFS Plus volume.
const MasterDirectoryBlockSize = 130

// DecodeMasterDirectoryBlock decodes the subset of a classic HFS MDB
// needed to detect a wrapped HFS Plus volume and compute its offset.
func DecodeMasterDirectoryBlock(buf []byte) (types.MasterDirectoryBlock, error) {
	if err := need(buf, MasterDirectoryBlockSize, "master directory block"); err != nil {
		return types.MasterDirectoryBlock{}, err
	}
	var mdb types.MasterDirectoryBlock
	mdb.Signature = binary.BigEndian.Uint16(buf[0:2])
	mdb.CreateDate = binary.BigEndian.Uint32(buf[2:6])
	mdb.ModifyDate = binary.BigEndian.Uint32(buf[6:10])
	mdb.Attributes = binary.BigEndian.Uint16(buf[10:12])
	mdb.RootFileCount = binary.BigEndian.Uint16(buf[12:14])
	mdb.VolBitmapStart = binary.BigEndian.Uint16(buf[14:16])
	mdb.AllocationPtr = binary.BigEndian.Uint16(buf[16:18])
	mdb.TotalBlocks = binary.BigEndian.Uint16(buf[18:20])
	mdb.BlockSize = binary.BigEndian.Uint32(buf[20:24])
	mdb.ClumpSize = binary.BigEndian.Uint32(buf[24:28])
	mdb.AllocBlockStart = binary.BigEndian.Uint16(buf[28:30])
	mdb.NextCatalogID = binary.BigEndian.Uint32(buf[30:34])
	mdb.FreeBlocks = binary.BigEndian.Uint16(buf[34:36])

	// drEmbedSigWord / drEmbedExtent sit at offset 124, immediately
	// after the 32-byte drFndrInfo block this reader never needs.
	mdb.EmbeddedSignature = binary.BigEndian.Uint16(buf[124:126])
	mdb.EmbeddedExtent = types.ExtentDescriptorHFS{
		StartBlock: binary.BigEndian.Uint16(buf[126:128]),
		BlockCount: binary.BigEndian.Uint16(buf[128:130]),
	}
	return mdb, nil
}

// JournalInfoBlockSize is the on-disk size of JournalInfoBlock.
const JournalInfoBlockSize = 4 + 32*4 + 8 + 8 + 32*4

// DecodeJournalInfoBlock decodes a volume's journal info block. This
// package never replays the journal; the block is exposed read-only
// for inspection.
func DecodeJournalInfoBlock(buf []byte) (types.JournalInfoBlock, error) {
	if err := need(buf, JournalInfoBlockSize, "journal info block"); err != nil {
		return types.JournalInfoBlock{}, err
	}
	var jib types.JournalInfoBlock
	jib.Flags = binary.BigEndian.Uint32(buf[0:4])
	off := 4
	for i := range jib.DeviceSignature {
		jib.DeviceSignature[i] = binary.BigEndian.Uint32(buf[off : off+4])
		off += 4
	}
	jib.Offset = binary.BigEndian.Uint64(buf[off : off+8])
	off += 8
	jib.Size = binary.BigEndian.Uint64(buf[off : off+8])
	off += 8
	for i := range jib.RawReserved {
		jib.RawReserved[i] = binary.BigEndian.Uint32(buf[off : off+4])
		off += 4
	}
	return jib, nil
}
