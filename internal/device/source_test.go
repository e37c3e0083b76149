package device

import (
	"bytes"
	"testing"
)

func TestFileSourceReadAt(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 100)
	src := NewFileSource(bytes.NewReader(data), int64(len(data)))
	buf := make([]byte, 10)
	n, err := src.ReadAt(buf, 5)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("n = %d", n)
	}
}

func TestFileSourceNegativeOffset(t *testing.T) {
	src := NewFileSource(bytes.NewReader(nil), 0)
	if _, err := src.ReadAt(make([]byte, 1), -1); err == nil {
		t.Fatal("expected error")
	}
}

func TestOffsetSourceRebasesReads(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	base := NewFileSource(bytes.NewReader(data), int64(len(data)))
	sub := NewOffsetSource(base, 100, 50)

	buf := make([]byte, 4)
	if _, err := sub.ReadAt(buf, 0); err != nil {
		t.Fatal(err)
	}
	want := data[100:104]
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
	if sub.Length() != 50 {
		t.Fatalf("length = %d", sub.Length())
	}
}

func TestOffsetSourceEOFPastLength(t *testing.T) {
	base := NewFileSource(bytes.NewReader(make([]byte, 100)), 100)
	sub := NewOffsetSource(base, 0, 10)
	_, err := sub.ReadAt(make([]byte, 4), 10)
	if err == nil {
		t.Fatal("expected EOF past sub length")
	}
}

func TestOffsetSourceChaining(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	base := NewFileSource(bytes.NewReader(data), int64(len(data)))
	outer := base.Sub(50, -1)
	inner := outer.Sub(10, 20)

	buf := make([]byte, 1)
	if _, err := inner.ReadAt(buf, 0); err != nil {
		t.Fatal(err)
	}
	if buf[0] != data[60] {
		t.Fatalf("got %d, want %d", buf[0], data[60])
	}
}

func TestReadBlocksAt(t *testing.T) {
	data := make([]byte, 512*4)
	for i := range data {
		data[i] = byte(i % 256)
	}
	src := NewFileSource(bytes.NewReader(data), int64(len(data)))
	buf, err := ReadBlocksAt(src, 512, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, data[512:512*3]) {
		t.Fatal("block contents mismatch")
	}
}

func TestReadBlocksAtZeroBlockSize(t *testing.T) {
	src := NewFileSource(bytes.NewReader(nil), 0)
	if _, err := ReadBlocksAt(src, 0, 0, 1); err == nil {
		t.Fatal("expected error")
	}
}
