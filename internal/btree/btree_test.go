package btree

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/types"
)

const testNodeSize = 512

// memTree is a Reader backed by an in-memory byte slice, one
// testNodeSize-byte node per slot, used to exercise Tree without a
// real fork or device.Source.
type memTree struct {
	buf []byte
}

func (m *memTree) ReadRange(dst []byte, size int, offset uint64) (int, error) {
	n := copy(dst[:size], m.buf[offset:])
	return n, nil
}

func (m *memTree) putNode(num int, buf []byte) {
	copy(m.buf[num*testNodeSize:], buf)
}

// buildNode lays out a node with the given kind and (key, payload)
// records, writing the reversed offset table at the node's tail. Each
// key is copied as-is and must already start with its own 2-byte
// length prefix, as the Build*Key helpers produce.
func buildNode(kind int8, flink, blink uint32, records [][2][]byte) []byte {
	buf := make([]byte, testNodeSize)
	binary.BigEndian.PutUint32(buf[0:4], flink)
	binary.BigEndian.PutUint32(buf[4:8], blink)
	buf[8] = byte(kind)
	buf[9] = 0
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(records)))

	offsets := make([]uint16, 0, len(records)+1)
	cursor := uint16(types.BTNodeDescriptorSize)
	for _, rec := range records {
		offsets = append(offsets, cursor)
		key, payload := rec[0], rec[1]
		copy(buf[cursor:], key)
		pos := cursor + uint16(len(key))
		if len(key)%2 != 0 {
			pos++
		}
		copy(buf[pos:], payload)
		cursor = pos + uint16(len(payload))
	}
	offsets = append(offsets, cursor) // free space marker

	tableStart := testNodeSize - (len(offsets) * 2)
	for i, off := range offsets {
		pos := tableStart + (len(offsets)-1-i)*2
		binary.BigEndian.PutUint16(buf[pos:pos+2], off)
	}
	return buf
}

// buildHeaderNode writes a header node with the header record placed
// directly after the node descriptor, with no key prefix: the header
// record is a fixed structure addressed by position, not a generic
// key+payload entry like index/leaf records.
func buildHeaderNode(rootNode, firstLeaf, lastLeaf uint32, nodeSize uint16, btreeType uint8) []byte {
	buf := make([]byte, testNodeSize)
	buf[8] = byte(types.BTNodeKindHeader)
	binary.BigEndian.PutUint16(buf[10:12], 1) // numRecords

	header := buf[types.BTNodeDescriptorSize:]
	binary.BigEndian.PutUint16(header[0:2], 1) // treeDepth
	binary.BigEndian.PutUint32(header[2:6], rootNode)
	binary.BigEndian.PutUint32(header[6:10], 2) // leafRecords
	binary.BigEndian.PutUint32(header[10:14], firstLeaf)
	binary.BigEndian.PutUint32(header[14:18], lastLeaf)
	binary.BigEndian.PutUint16(header[18:20], nodeSize)
	binary.BigEndian.PutUint32(header[22:26], 2) // totalNodes
	header[36] = btreeType
	return buf
}

func TestTreeOpenAndSearchExtentKeys(t *testing.T) {
	key1 := BuildExtentKey(100, types.ForkTypeData, 0)
	key2 := BuildExtentKey(100, types.ForkTypeData, 40)
	leaf := buildNode(types.BTNodeKindLeaf, 0, 0, [][2][]byte{
		{key1, []byte("payload-one-")},
		{key2, []byte("payload-two-")},
	})
	header := buildHeaderNode(1, 1, 1, testNodeSize, types.BTreeKindHFS)

	mt := &memTree{buf: make([]byte, testNodeSize*2)}
	mt.putNode(0, header)
	mt.putNode(1, leaf)

	tree, err := Open(mt, NewExtentCompare())
	if err != nil {
		t.Fatal(err)
	}
	if tree.NodeSize() != testNodeSize {
		t.Fatalf("node size = %d", tree.NodeSize())
	}

	payload, found, err := tree.Search(key1)
	if err != nil {
		t.Fatal(err)
	}
	if !found || !bytes.Equal(payload, []byte("payload-one-")) {
		t.Fatalf("search key1: found=%v payload=%q", found, payload)
	}

	payload, found, err = tree.Search(key2)
	if err != nil {
		t.Fatal(err)
	}
	if !found || !bytes.Equal(payload, []byte("payload-two-")) {
		t.Fatalf("search key2: found=%v payload=%q", found, payload)
	}

	missing := BuildExtentKey(100, types.ForkTypeData, 999)
	_, found, err = tree.Search(missing)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestTreeIterateVisitsRecord0(t *testing.T) {
	key1 := BuildExtentKey(1, types.ForkTypeData, 0)
	key2 := BuildExtentKey(1, types.ForkTypeData, 5)
	leaf := buildNode(types.BTNodeKindLeaf, 0, 0, [][2][]byte{
		{key1, []byte("a")},
		{key2, []byte("b")},
	})
	header := buildHeaderNode(1, 1, 1, testNodeSize, types.BTreeKindHFS)

	mt := &memTree{buf: make([]byte, testNodeSize*2)}
	mt.putNode(0, header)
	mt.putNode(1, leaf)

	tree, err := Open(mt, NewExtentCompare())
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	err = tree.Iterate(func(key, payload []byte) bool {
		got = append(got, string(payload))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestCaseFoldCompareIgnoresAsciiCase(t *testing.T) {
	a := unicodeName("Desktop")
	b := unicodeName("desktop")
	if caseFoldCompare(a, b) != 0 {
		t.Fatal("expected case-insensitive equality")
	}
}

func TestCaseFoldCompareOrdersByLength(t *testing.T) {
	a := unicodeName("A")
	b := unicodeName("AB")
	if caseFoldCompare(a, b) >= 0 {
		t.Fatal("shorter equal-prefix name should sort first")
	}
}

func TestBinaryUnicodeCompareIsCaseSensitive(t *testing.T) {
	a := unicodeName("Desktop")
	b := unicodeName("desktop")
	if binaryUnicodeCompare(a, b) == 0 {
		t.Fatal("binary compare should distinguish case")
	}
}

func unicodeName(s string) types.HFSUniStr255 {
	var u types.HFSUniStr255
	for i, r := range s {
		u.Unicode[i] = uint16(r)
	}
	u.Length = uint16(len(s))
	return u
}

func TestNewCatalogCompareOrdersByParentThenName(t *testing.T) {
	cmp := NewCatalogCompare(types.KeyCompareCaseFolding)
	k1 := BuildCatalogKey(2, []uint16{'a'})
	k2 := BuildCatalogKey(3, []uint16{'a'})
	if cmp(k1, k2) >= 0 {
		t.Fatal("parent 2 should sort before parent 3")
	}

	k3 := BuildCatalogKey(2, []uint16{'a'})
	k4 := BuildCatalogKey(2, []uint16{'b'})
	if cmp(k3, k4) >= 0 {
		t.Fatal("'a' should sort before 'b' under the same parent")
	}
}
