package partition

import (
	"bytes"
	"errors"
	"testing"

	"github.com/deploymenttheory/go-hfsplus/internal/device"
	"github.com/deploymenttheory/go-hfsplus/internal/herr"
)

func TestDetectPrefersGPTOverMBR(t *testing.T) {
	// A GPT disk also carries a protective MBR at block 0 (type 0xEE),
	// so Detect must recognize GPT first or it would misreport scheme.
	src := gptImage(t)
	res, err := Detect(src, blockSize)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scheme != SchemeGPT {
		t.Fatalf("scheme = %v, want GPT", res.Scheme)
	}
}

func TestDetectFallsBackToMBR(t *testing.T) {
	src := mbrImage([][2]uint32{{0, 0}, {2048, 409600}, {0, 0}, {0, 0}}, []byte{0, 0xAF, 0, 0})
	res, err := Detect(src, 512)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scheme != SchemeMBR {
		t.Fatalf("scheme = %v, want MBR", res.Scheme)
	}
}

func TestDetectFallsBackToAPM(t *testing.T) {
	src := apmImage(t)
	res, err := Detect(src, 512)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scheme != SchemeAPM {
		t.Fatalf("scheme = %v, want APM", res.Scheme)
	}
}

func TestDetectReturnsWrongFilesystemForUnknown(t *testing.T) {
	buf := make([]byte, 1024)
	zeroSrc := device.NewFileSource(bytes.NewReader(buf), int64(len(buf)))

	_, err := Detect(zeroSrc, 512)
	if err == nil {
		t.Fatal("expected an error for an unrecognized image")
	}
	if !errors.Is(err, herr.WrongFilesystem) {
		t.Fatalf("err = %v, want WrongFilesystem", err)
	}
}
