//go:build windows

package imagehook

import (
	"testing"
	"unsafe"
)

// fakePEImage lays out a DOS header, NT signature, file header, and one
// section header the way a loaded module presents them.
type fakePEImage struct {
	dos  imageDOSHeader
	sig  uint32
	file imageFileHeader
	sect imageSectionHeader
}

func newFakePEImage(name string, rva, size uint32) *fakePEImage {
	img := &fakePEImage{}
	img.dos.Magic = imageDOSSignature
	img.dos.NewExeAt = int32(unsafe.Sizeof(img.dos))
	img.sig = imageNTSignature
	img.file.NumberOfSections = 1
	img.sect.VirtualAddress = rva
	img.sect.VirtualSize = size
	copy(img.sect.Name[:], name)
	return img
}

func TestPEImageSectionFound(t *testing.T) {
	img := newFakePEImage(".conform", 0x3000, 16)
	base := uintptr(unsafe.Pointer(img))

	sect := peImageSection(base)
	if sect.Length != 16 {
		t.Fatalf("section length = %d, want 16", sect.Length)
	}
	if want := base + 0x3000; sect.Base != want {
		t.Fatalf("section base = %#x, want %#x", sect.Base, want)
	}
}

func TestPEImageSectionRawSizeFallback(t *testing.T) {
	img := newFakePEImage(".conform", 0x3000, 0)
	img.sect.SizeOfRawData = 32
	base := uintptr(unsafe.Pointer(img))

	if sect := peImageSection(base); sect.Length != 32 {
		t.Fatalf("section length = %d, want raw-data fallback 32", sect.Length)
	}
}

func TestPEImageSectionAbsent(t *testing.T) {
	img := newFakePEImage(".other", 0x3000, 16)
	base := uintptr(unsafe.Pointer(img))

	sect := peImageSection(base)
	if sect.Length != 0 {
		t.Fatalf("absent section reported length %d", sect.Length)
	}
	if sect.Base != base {
		t.Fatalf("absent section base = %#x, want module base %#x", sect.Base, base)
	}
}

func TestPEImageSectionBadHeaders(t *testing.T) {
	img := newFakePEImage(".conform", 0x3000, 16)
	img.dos.Magic = 0x4451
	base := uintptr(unsafe.Pointer(img))
	if sect := peImageSection(base); sect.Length != 0 {
		t.Fatalf("walked image without DOS signature: %+v", sect)
	}

	img = newFakePEImage(".conform", 0x3000, 16)
	img.sig = 0
	base = uintptr(unsafe.Pointer(img))
	if sect := peImageSection(base); sect.Length != 0 {
		t.Fatalf("walked image without NT signature: %+v", sect)
	}
}

func TestLoadImagesOSDeliversLoadedModules(t *testing.T) {
	rec := &recorder{}
	SetRegisterFunc(rec.callback)
	t.Cleanup(func() { SetRegisterFunc(nil) })

	loadImagesOS()

	// At minimum the executable itself and ntdll are mapped.
	if rec.count() < 2 {
		t.Fatalf("delivered %d sections, expected one per loaded module", rec.count())
	}
	for _, sect := range rec.snapshot() {
		if sect.Length != 0 {
			t.Fatalf("test binary carries no records, got non-empty section %+v", sect)
		}
		if sect.Base == 0 {
			t.Fatal("delivery with nil base for a loaded module")
		}
	}
}
