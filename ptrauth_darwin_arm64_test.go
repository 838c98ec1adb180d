//go:build darwin && arm64

package imagehook

import "testing"

func TestStripDataPointerUserHalf(t *testing.T) {
	// Bit 55 clear: a user-space pointer. Whatever the signing hardware left
	// above the address bits must come back zero; the address survives.
	addr := uintptr(0x0000_1a2b_3c4d_5e60)
	signed := addr | uintptr(0x2e1b)<<pauthAddrBits&^pauthSelectMask

	if got := StripDataPointer(signed); got != addr {
		t.Fatalf("StripDataPointer(%#x) = %#x, want %#x", signed, got, addr)
	}
}

func TestStripDataPointerKernelHalf(t *testing.T) {
	// Bit 55 set: upper-half pointer, strip extends ones through the top.
	low := uintptr(0x1a2b_3c4d)
	signed := low | pauthSelectMask | uintptr(0x55)<<56
	want := low | pauthUpperMask

	if got := StripDataPointer(signed); got != want {
		t.Fatalf("StripDataPointer(%#x) = %#x, want %#x", signed, got, want)
	}
}

func TestStripDataPointerAlreadyCanonical(t *testing.T) {
	values := []uintptr{
		0,
		1,
		0x0000_7f00_0000_1234 &^ pauthUpperMask,
		^uintptr(0), // all ones: canonical upper-half pointer
	}
	for _, p := range values {
		if got := StripDataPointer(p); got != p {
			t.Errorf("StripDataPointer(%#x) = %#x, want identity for canonical value", p, got)
		}
	}
}
