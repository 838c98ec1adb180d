//go:build darwin

package imagehook

import (
	"testing"
	"unsafe"
)

// fakeMachImage lays out a 64-bit header, one segment command, and its
// section table contiguously, the way dyld presents a mapped image.
type fakeMachImage struct {
	hdr  machHeader64
	seg  segmentCommand64
	sect section64
}

func newFakeMachImage(segName, sectName string, addr, size uint64) *fakeMachImage {
	img := &fakeMachImage{}
	img.hdr = machHeader64{
		Magic:      machMagic64,
		NCmds:      1,
		SizeOfCmds: uint32(unsafe.Sizeof(img.seg) + unsafe.Sizeof(img.sect)),
	}
	img.seg = segmentCommand64{
		Cmd:     lcSegment64,
		CmdSize: uint32(unsafe.Sizeof(img.seg) + unsafe.Sizeof(img.sect)),
		NSects:  1,
	}
	copy(img.seg.SegName[:], segName)
	img.sect = section64{Addr: addr, Size: size}
	copy(img.sect.SectName[:], sectName)
	copy(img.sect.SegName[:], segName)
	return img
}

func TestMachImageSectionFound(t *testing.T) {
	img := newFakeMachImage("__TEXT", "__conform", 0x1010, 16)
	base := uintptr(unsafe.Pointer(img))

	sect := machImageSection(base, 0x4000)
	if sect.Length != 16 {
		t.Fatalf("section length = %d, want 16", sect.Length)
	}
	if want := uintptr(0x1010 + 0x4000); sect.Base != want {
		t.Fatalf("section base = %#x, want slid address %#x", sect.Base, want)
	}
}

func TestMachImageSectionAbsent(t *testing.T) {
	img := newFakeMachImage("__TEXT", "__other", 0x1010, 16)
	base := uintptr(unsafe.Pointer(img))

	sect := machImageSection(base, 0x4000)
	if sect.Length != 0 {
		t.Fatalf("absent section reported length %d", sect.Length)
	}
	if sect.Base != base {
		t.Fatalf("absent section base = %#x, want module base %#x", sect.Base, base)
	}
}

func TestMachImageSectionWrongSegment(t *testing.T) {
	img := newFakeMachImage("__DATA", "__conform", 0x1010, 16)
	base := uintptr(unsafe.Pointer(img))

	if sect := machImageSection(base, 0); sect.Length != 0 {
		t.Fatalf("section outside %q segment matched: %+v", "__TEXT", sect)
	}
}

func TestMachImageSectionBadMagic(t *testing.T) {
	img := newFakeMachImage("__TEXT", "__conform", 0x1010, 16)
	img.hdr.Magic = 0xfeedface // 32-bit header, not walked
	base := uintptr(unsafe.Pointer(img))

	if sect := machImageSection(base, 0); sect.Length != 0 {
		t.Fatalf("non-64-bit image walked: %+v", sect)
	}
}
