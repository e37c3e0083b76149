// Package partition locates HFS Plus volumes within the partitioning
// schemes that commonly contain them. Decoding stops at reporting a
// partition's offset, length, and a best-guess content hint; deep
// decoding of any scheme's own metadata is out of scope.
package partition

import (
	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
	"github.com/google/uuid"
)

// Scheme identifies which partition map format was detected.
type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeGPT
	SchemeMBR
	SchemeCoreStorage
	SchemeAPM
)

// Hint is a coarse guess at a partition's content, derived from its
// type code/GUID/name.
type Hint int

const (
	HintIgnore Hint = iota
	HintHFS
	HintCoreStorage
	HintEFI
	HintFreeSpace
	HintUnknown
)

// Entry describes one partition located within a scheme.
type Entry struct {
	Index  int
	Offset int64
	Length int64
	Hint   Hint
	Name   string // scheme-specific type name or label, for display only

	// TypeGUID and UniqueGUID are populated for GPT entries only; they
	// are uuid.Nil for every other scheme.
	TypeGUID   uuid.UUID
	UniqueGUID uuid.UUID
}

// Result is everything Detect found about a source's partitioning.
type Result struct {
	Scheme  Scheme
	Entries []Entry
}

// Detect probes src for a partition map, trying each scheme in the
// same precedence the format's reference tool uses: GPT first, then
// MBR, then Core Storage, then Apple Partition Map. It returns
// herr.WrongFilesystem if none match.
func Detect(src device.Source, blockSize uint32) (*Result, error) {
	if ok, err := GPTTest(src, blockSize); err != nil {
		return nil, err
	} else if ok {
		entries, err := GPTLoad(src, blockSize)
		if err != nil {
			return nil, err
		}
		return &Result{Scheme: SchemeGPT, Entries: entries}, nil
	}

	if ok, err := MBRTest(src); err != nil {
		return nil, err
	} else if ok {
		entries, err := MBRLoad(src, blockSize)
		if err != nil {
			return nil, err
		}
		return &Result{Scheme: SchemeMBR, Entries: entries}, nil
	}

	if ok, err := CoreStorageTest(src, blockSize); err != nil {
		return nil, err
	} else if ok {
		entries, err := CoreStorageLoad(src, blockSize)
		if err != nil {
			return nil, err
		}
		return &Result{Scheme: SchemeCoreStorage, Entries: entries}, nil
	}

	if ok, err := APMTest(src); err != nil {
		return nil, err
	} else if ok {
		entries, err := APMLoad(src)
		if err != nil {
			return nil, err
		}
		return &Result{Scheme: SchemeAPM, Entries: entries}, nil
	}

	return nil, herr.New(herr.WrongFilesystem, "no known partition scheme found")
}
