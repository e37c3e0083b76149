// Package volume attaches to an HFS Plus or HFSX volume within a
// block source, handling the legacy "wrapped" HFS Standard case where
// the real volume is embedded inside an HFS Standard wrapper.
package volume

import (
	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

// Kind classifies what hfs_test found at the start of a candidate volume.
type Kind int

const (
	KindUnknown Kind = iota
	KindHFS          // plain HFS Standard, out of scope
	KindHFSPlus
	KindWrappedHFSPlus
)

// Detect inspects src for an HFS Standard, HFS Plus, HFSX, or
// wrapped-HFS-Plus signature, without attaching. It mirrors hfs_test:
// the Master Directory Block is checked first, then the volume header
// at the same fixed offset.
func Detect(src device.Source) (Kind, error) {
	buf := make([]byte, endian.MasterDirectoryBlockSize)
	if _, err := src.ReadAt(buf, 1024); err != nil {
		return KindUnknown, herr.Newf(herr.IOError, "reading master directory block: %v", err)
	}
	mdb, err := endian.DecodeMasterDirectoryBlock(buf)
	if err != nil {
		return KindUnknown, err
	}

	if mdb.Signature == types.SigHFS && mdb.EmbeddedSignature == types.SigHFSPlus {
		return KindWrappedHFSPlus, nil
	}
	if mdb.Signature == types.SigHFS {
		return KindHFS, nil
	}

	vhBuf := make([]byte, endian.VolumeHeaderSize)
	if _, err := src.ReadAt(vhBuf, 1024); err != nil {
		return KindUnknown, herr.Newf(herr.IOError, "reading volume header: %v", err)
	}
	vh, err := endian.DecodeVolumeHeader(vhBuf)
	if err != nil {
		return KindUnknown, err
	}
	if vh.Signature == types.SigHFSPlus || vh.Signature == types.SigHFSX {
		return KindHFSPlus, nil
	}
	return KindUnknown, nil
}

// Volume is an attached HFS Plus / HFSX volume: a Source scoped to
// its own byte range plus its decoded header.
type Volume struct {
	Source device.Source
	Header types.VolumeHeader

	// offset is how many bytes into the original, unscoped source
	// this volume's block 0 actually begins, accounting for a wrapper
	// MDB's embedding math. It is recorded for diagnostics; Source is
	// already scoped to it.
	offset int64
}

// Offset reports the byte offset, relative to the source originally
// passed to Attach, where this volume's own block 0 begins.
func (v *Volume) Offset() int64 { return v.offset }

// Attach locates and decodes the HFS Plus volume header within src,
// resolving the wrapped-HFS-Plus embedding offset first if needed.
// It refuses plain HFS Standard volumes and anything unrecognized.
func Attach(src device.Source) (*Volume, error) {
	kind, err := Detect(src)
	if err != nil {
		return nil, err
	}
	if kind == KindUnknown {
		return nil, herr.New(herr.WrongFilesystem, "no HFS Standard, HFS Plus, or HFSX signature found")
	}
	if kind == KindHFS {
		return nil, herr.New(herr.UnsupportedFilesystem, "plain HFS Standard volumes are not supported, only HFS Plus/HFSX and wrapped HFS Plus")
	}

	var offset int64
	if kind == KindWrappedHFSPlus {
		buf := make([]byte, endian.MasterDirectoryBlockSize)
		if _, err := src.ReadAt(buf, 1024); err != nil {
			return nil, herr.Newf(herr.IOError, "reading master directory block: %v", err)
		}
		mdb, err := endian.DecodeMasterDirectoryBlock(buf)
		if err != nil {
			return nil, err
		}
		// hfs_attach: hfs->offset = (mdb.drAlBlSt * 512) + (mdb.drEmbedExtent.startBlock * mdb.drAlBlkSiz)
		offset = int64(mdb.AllocBlockStart)*512 + int64(mdb.EmbeddedExtent.StartBlock)*int64(mdb.BlockSize)
	}

	scoped := src.Sub(offset, -1)
	vhBuf := make([]byte, endian.VolumeHeaderSize)
	if _, err := scoped.ReadAt(vhBuf, 1024); err != nil {
		return nil, herr.Newf(herr.IOError, "reading embedded volume header: %v", err)
	}
	vh, err := endian.DecodeVolumeHeader(vhBuf)
	if err != nil {
		return nil, err
	}
	if vh.Signature != types.SigHFSPlus && vh.Signature != types.SigHFSX {
		return nil, herr.New(herr.Malformed, "embedded volume does not carry an HFS Plus/HFSX signature")
	}

	return &Volume{Source: scoped, Header: vh, offset: offset}, nil
}

// JournalInfoBlock reads and decodes the volume's journal info block,
// if one is present. Replaying the journal is out of scope; this is
// inspection only. It returns herr.UnsupportedFilesystem if the
// volume was not mounted with a journal.
func (v *Volume) JournalInfoBlock() (types.JournalInfoBlock, error) {
	if v.Header.JournalInfoBlock == 0 {
		return types.JournalInfoBlock{}, herr.New(herr.UnsupportedFilesystem, "volume has no journal info block")
	}
	buf, err := device.ReadBlocksAt(v.Source, v.Header.BlockSize, uint64(v.Header.JournalInfoBlock), 1)
	if err != nil {
		return types.JournalInfoBlock{}, err
	}
	if len(buf) < endian.JournalInfoBlockSize {
		return types.JournalInfoBlock{}, herr.New(herr.Malformed, "journal info block truncated by block size")
	}
	return endian.DecodeJournalInfoBlock(buf[:endian.JournalInfoBlockSize])
}
