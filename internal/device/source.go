// Package device provides the block-source abstraction every higher
// layer in this module reads through. It intentionally stays thin: no
// caching, no block-device-specific ioctls, just addressed reads over
// whatever io.ReaderAt the caller already has open.
package device

import (
	"io"

	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

// Source is a read-only, randomly addressable byte range. Volumes and
// partitions are both expressed in terms of it: a Source for an
// entire disk image, or a Sub-Source scoped to one partition's bytes.
type Source interface {
	// ReadAt reads len(p) bytes starting at byte offset off, relative
	// to this Source's own origin. It follows io.ReaderAt's contract:
	// a short read is always accompanied by a non-nil error.
	ReadAt(p []byte, off int64) (int, error)

	// Length reports the Source's size in bytes, or -1 if unknown.
	Length() int64

	// Sub returns a Source whose offset 0 corresponds to byte offset
	// off of this Source, truncated to length bytes (or to the end of
	// this Source if length is negative).
	Sub(off, length int64) Source
}

// FileSource is a Source backed directly by an os.File or any other
// io.ReaderAt, with a known total length.
type FileSource struct {
	r      io.ReaderAt
	length int64
}

// NewFileSource wraps r, reporting length bytes of content.
func NewFileSource(r io.ReaderAt, length int64) *FileSource {
	return &FileSource{r: r, length: length}
}

func (f *FileSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, herr.Newf(herr.InvalidArgument, "negative offset %d", off)
	}
	n, err := f.r.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, herr.Newf(herr.IOError, "read at %d: %v", off, err)
	}
	return n, err
}

func (f *FileSource) Length() int64 { return f.length }

func (f *FileSource) Sub(off, length int64) Source {
	if length < 0 {
		length = f.length - off
	}
	return &OffsetSource{base: f, offset: off, length: length}
}

// OffsetSource re-bases another Source so that its own offset 0 maps
// to a fixed offset of the parent. Used to scope a Source to one
// partition, or to a wrapped HFS Plus volume's computed start.
type OffsetSource struct {
	base   Source
	offset int64
	length int64
}

// NewOffsetSource scopes base to the byte range [offset, offset+length).
// A negative length means "to the end of base".
func NewOffsetSource(base Source, offset, length int64) *OffsetSource {
	if length < 0 {
		length = base.Length() - offset
	}
	return &OffsetSource{base: base, offset: offset, length: length}
}

func (o *OffsetSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, herr.Newf(herr.InvalidArgument, "negative offset %d", off)
	}
	if o.length >= 0 && off >= o.length {
		return 0, io.EOF
	}
	truncated := false
	if o.length >= 0 {
		max := o.length - off
		if int64(len(p)) > max {
			p = p[:max]
			truncated = true
		}
	}
	n, err := o.base.ReadAt(p, o.offset+off)
	if err == nil && truncated {
		err = io.EOF
	}
	return n, err
}

func (o *OffsetSource) Length() int64 { return o.length }

func (o *OffsetSource) Offset() int64 { return o.offset }

func (o *OffsetSource) Sub(off, length int64) Source {
	if length < 0 {
		length = o.length - off
	}
	return &OffsetSource{base: o.base, offset: o.offset + off, length: length}
}

// ReadBlocksAt reads count blocks of blockSize bytes each starting at
// logical block start, from src. It is a small convenience used by
// every higher layer that addresses data in block units rather than
// raw byte offsets.
func ReadBlocksAt(src Source, blockSize uint32, start uint64, count uint32) ([]byte, error) {
	if blockSize == 0 {
		return nil, herr.New(herr.InvalidArgument, "block size is zero")
	}
	buf := make([]byte, uint64(count)*uint64(blockSize))
	n, err := src.ReadAt(buf, int64(start)*int64(blockSize))
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return nil, herr.Newf(herr.IOError, "read %d blocks at block %d: %v", count, start, err)
	}
	return buf, nil
}
