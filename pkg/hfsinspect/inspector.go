// Package hfsinspect is the public facade over this module's engine
// packages: it wires the block source, partition detector, volume
// layer, fork layer, and B-tree reader together into a single handle
// a caller opens once and traverses, mirroring the teacher's
// pkg/services split between a thin public facade and the
// internal engine it drives.
package hfsinspect

import (
	"io"
	"os"
	"strings"

	"github.com/deploymenttheory/go-hfsplus/internal/btree"
	"github.com/deploymenttheory/go-hfsplus/internal/config"
	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/endian"
	"github.com/deploymenttheory/go-hfsplus/internal/fork"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/deploymenttheory/go-hfsplus/internal/partition"
	"github.com/deploymenttheory/go-hfsplus/internal/types"
	"github.com/deploymenttheory/go-hfsplus/internal/volume"
)

// Inspector is an attached HFS Plus / HFSX volume, ready for catalog
// lookups and fork extraction. It owns the file it was opened from
// and must be closed by the caller.
type Inspector struct {
	file       *os.File
	partitions *partition.Result
	vol        *volume.Volume

	overflow *btree.OverflowTree
	catalog  *btree.Tree
}

// Open opens path as a raw device or disk image and attaches the HFS
// Plus/HFSX volume found there. When cfg.AutoSniffPartitions is true,
// it first best-effort sniffs a partition table (trying each
// partition the detector hints as HFS until one attaches); otherwise it
// skips straight to treating path's whole contents as a bare volume.
// If no partition scheme is recognized (or sniffing is disabled),
// path's whole contents are tried directly, matching spec.md §2's
// data flow: partition detection is an optional first hop on the way
// to volume attach, not a requirement. cfg.MaxForkReadIterations, if
// positive, overrides the fork-read convergence bound for the
// lifetime of the process. A nil cfg uses built-in defaults
// equivalent to config.Load()'s own defaults.
func Open(path string, blockSize uint32, cfg *config.Config) (*Inspector, error) {
	if blockSize == 0 {
		blockSize = 512
	}
	autoSniff := true
	if cfg != nil {
		autoSniff = cfg.AutoSniffPartitions
		if cfg.MaxForkReadIterations > 0 {
			fork.MaxReadIterations = cfg.MaxForkReadIterations
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, herr.Newf(herr.IOError, "opening %s: %v", path, err)
	}

	info, statErr := f.Stat()
	length := int64(-1)
	if statErr == nil {
		length = info.Size()
	}
	root := device.NewFileSource(f, length)

	insp := &Inspector{file: f}

	if autoSniff {
		if res, perr := partition.Detect(root, blockSize); perr == nil {
			insp.partitions = res
			for _, e := range res.Entries {
				if e.Hint != partition.HintHFS {
					continue
				}
				sub := root.Sub(e.Offset, e.Length)
				if vol, verr := volume.Attach(sub); verr == nil {
					insp.vol = vol
					break
				}
			}
		}
	}

	if insp.vol == nil {
		vol, verr := volume.Attach(root)
		if verr != nil {
			f.Close()
			return nil, verr
		}
		insp.vol = vol
	}

	return insp, nil
}

// Close releases the underlying file handle.
func (insp *Inspector) Close() error {
	return insp.file.Close()
}

// Partitions reports the partition scheme detected ahead of the
// attached volume, or nil if none was found (the source was used as a
// bare volume directly).
func (insp *Inspector) Partitions() *partition.Result {
	return insp.partitions
}

// VolumeHeader returns the attached volume's decoded header.
func (insp *Inspector) VolumeHeader() types.VolumeHeader {
	return insp.vol.Header
}

// RawReader exposes the attached volume's own byte source for callers
// that want to dump the raw volume header or otherwise scan outside
// the catalog; it never leaves the volume's own scoped byte range.
func (insp *Inspector) RawReader() io.ReaderAt {
	return readerAtFunc(func(p []byte, off int64) (int, error) {
		return insp.vol.Source.ReadAt(p, off)
	})
}

type readerAtFunc func(p []byte, off int64) (int, error)

func (f readerAtFunc) ReadAt(p []byte, off int64) (int, error) { return f(p, off) }

// SpecialFork opens one of the volume's special files directly by
// CNID (extents overflow, catalog, allocation, startup, attributes).
func (insp *Inspector) SpecialFork(cnid uint32) (*fork.Fork, error) {
	if cnid == types.CNIDExtentsFile {
		// The extents-overflow file's own fork never needs a resolver:
		// its embedded extents are assumed to always cover it.
		return fork.OpenSpecial(insp.vol.Source, insp.vol.Header.BlockSize, &insp.vol.Header, cnid, nil)
	}
	overflow, err := insp.overflowTree()
	if err != nil {
		return nil, err
	}
	return fork.OpenSpecial(insp.vol.Source, insp.vol.Header.BlockSize, &insp.vol.Header, cnid, overflow)
}

// overflowTree lazily opens the extents-overflow B-tree. It is the
// resolver every other special or catalog-file fork needs whenever
// its embedded extents alone don't cover it.
func (insp *Inspector) overflowTree() (*btree.OverflowTree, error) {
	if insp.overflow != nil {
		return insp.overflow, nil
	}
	extentsFork, err := fork.OpenSpecial(insp.vol.Source, insp.vol.Header.BlockSize, &insp.vol.Header, types.CNIDExtentsFile, nil)
	if err != nil {
		return nil, err
	}
	overflow, err := btree.OpenOverflow(extentsFork)
	if err != nil {
		return nil, err
	}
	insp.overflow = overflow
	return overflow, nil
}

// CatalogTree lazily opens the catalog B-tree.
func (insp *Inspector) CatalogTree() (*btree.Tree, error) {
	if insp.catalog != nil {
		return insp.catalog, nil
	}
	overflow, err := insp.overflowTree()
	if err != nil {
		return nil, err
	}
	catalogFork, err := fork.OpenSpecial(insp.vol.Source, insp.vol.Header.BlockSize, &insp.vol.Header, types.CNIDCatalogFile, overflow)
	if err != nil {
		return nil, err
	}
	tree, err := btree.OpenCatalogTree(catalogFork)
	if err != nil {
		return nil, err
	}
	insp.catalog = tree
	return tree, nil
}

// AttributesTree opens the attributes B-tree. Unlike the catalog and
// extents-overflow trees, most volumes never populate it; callers
// should expect herr.Malformed or a structurally empty tree on a
// volume with no extended attributes.
func (insp *Inspector) AttributesTree() (*btree.Tree, error) {
	overflow, err := insp.overflowTree()
	if err != nil {
		return nil, err
	}
	attrFork, err := fork.OpenSpecial(insp.vol.Source, insp.vol.Header.BlockSize, &insp.vol.Header, types.CNIDAttributesFile, overflow)
	if err != nil {
		return nil, err
	}
	return btree.OpenAttributesTree(attrFork)
}

// Lookup resolves a slash-separated path (rooted at the volume root,
// CNID 2) to its catalog file or folder record, walking one path
// component at a time via direct (parentID, name) key search.
func (insp *Inspector) Lookup(path string) (btree.CatalogRecord, error) {
	tree, err := insp.CatalogTree()
	if err != nil {
		return btree.CatalogRecord{}, err
	}

	parent := types.CNIDRootFolder
	components := splitPath(path)
	if len(components) == 0 {
		th, err := insp.threadRecord(tree, parent)
		if err != nil {
			return btree.CatalogRecord{}, err
		}
		name := th.Thread.NodeName
		payload, found, err := tree.Search(btree.BuildCatalogKey(th.Thread.ParentID, name.Unicode[:name.Length]))
		if err != nil {
			return btree.CatalogRecord{}, err
		}
		if !found {
			return btree.CatalogRecord{}, herr.New(herr.Malformed, "no catalog record for the root folder")
		}
		return btree.DecodeCatalogRecord(payload)
	}

	var rec btree.CatalogRecord
	for i, name := range components {
		key := btree.BuildCatalogKey(parent, encodeUTF16(name))
		payload, found, err := tree.Search(key)
		if err != nil {
			return btree.CatalogRecord{}, err
		}
		if !found {
			return btree.CatalogRecord{}, herr.Newf(herr.InvalidArgument, "no such catalog entry: %q", name)
		}
		rec, err = btree.DecodeCatalogRecord(payload)
		if err != nil {
			return btree.CatalogRecord{}, err
		}
		if i < len(components)-1 {
			if rec.Kind != types.RecordTypeFolder {
				return btree.CatalogRecord{}, herr.Newf(herr.InvalidArgument, "%q is not a folder", name)
			}
			parent = rec.Folder.FolderID
		}
	}
	return rec, nil
}

func (insp *Inspector) threadRecord(tree *btree.Tree, cnid uint32) (btree.CatalogRecord, error) {
	payload, found, err := tree.Search(btree.BuildThreadLookupKey(cnid))
	if err != nil {
		return btree.CatalogRecord{}, err
	}
	if !found {
		return btree.CatalogRecord{}, herr.Newf(herr.Malformed, "no thread record for cnid %d", cnid)
	}
	return btree.DecodeCatalogRecord(payload)
}

// DirEntry pairs a decoded catalog record with the name it was filed
// under, since CatalogRecord's payload alone never carries a name —
// that lives only in the key.
type DirEntry struct {
	Name   string
	Record btree.CatalogRecord
}

// List enumerates the immediate folder/file children of folderID.
// The catalog tree orders records by (parentID, name), so every
// child of folderID is contiguous; this still performs a full leaf
// scan rather than seeking directly to the first child, which is
// simple and correct at the cost of touching every leaf on large
// volumes — acceptable for a read-only inspector with no live index
// to maintain.
func (insp *Inspector) List(folderID uint32) ([]DirEntry, error) {
	tree, err := insp.CatalogTree()
	if err != nil {
		return nil, err
	}

	var out []DirEntry
	iterErr := tree.Iterate(func(key, payload []byte) bool {
		rec, err := btree.DecodeCatalogRecord(payload)
		if err != nil {
			return true
		}
		if rec.Kind != types.RecordTypeFolder && rec.Kind != types.RecordTypeFile {
			return true
		}
		ckey, _, err := endian.DecodeCatalogKey(key)
		if err != nil || ckey.ParentID != folderID {
			return true
		}
		out = append(out, DirEntry{Name: decodeUTF16(ckey.NodeName), Record: rec})
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return out, nil
}

// OpenDataFork opens file's data fork for reading.
func (insp *Inspector) OpenDataFork(file types.CatalogFile) (*fork.Fork, error) {
	overflow, err := insp.overflowTree()
	if err != nil {
		return nil, err
	}
	return fork.Open(insp.vol.Source, insp.vol.Header.BlockSize, file.DataFork, types.ForkTypeData, file.FileID, overflow)
}

// OpenResourceFork opens file's resource fork for reading.
func (insp *Inspector) OpenResourceFork(file types.CatalogFile) (*fork.Fork, error) {
	overflow, err := insp.overflowTree()
	if err != nil {
		return nil, err
	}
	return fork.Open(insp.vol.Source, insp.vol.Header.BlockSize, file.ResourceFork, types.ForkTypeResource, file.FileID, overflow)
}

// Stream wraps a Fork in an io.ReadSeeker, following the fork's
// logical byte stream rather than its block layout. Seeking uses
// standard, additive io.SeekEnd semantics (pos = length + offset, so
// a negative offset is required to land before the end), not the
// subtractive convention the tool this inspector descends from used.
func (insp *Inspector) Stream(f *fork.Fork) io.ReadSeeker {
	return &forkStream{fork: f}
}

type forkStream struct {
	fork *fork.Fork
	pos  int64
}

func (s *forkStream) Read(p []byte) (int, error) {
	if s.pos < 0 {
		return 0, herr.New(herr.InvalidArgument, "negative stream position")
	}
	n, err := s.fork.ReadRange(p, len(p), uint64(s.pos))
	s.pos += int64(n)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func (s *forkStream) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = int64(s.fork.LogicalSize)
	default:
		return 0, herr.Newf(herr.InvalidArgument, "invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, herr.New(herr.InvalidArgument, "seek would land before the start of the fork")
	}
	s.pos = pos
	return pos, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// decodeUTF16 renders an HFSUniStr255 as a Go string, re-combining any
// UTF-16 surrogate pairs it contains.
func decodeUTF16(s types.HFSUniStr255) string {
	units := s.Unicode[:s.Length]
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			r := (rune(u)-0xD800)<<10 + (rune(units[i+1]) - 0xDC00) + 0x10000
			runes = append(runes, r)
			i++
			continue
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}

func encodeUTF16(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, uint16(r))
			continue
		}
		r -= 0x10000
		out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return out
}
