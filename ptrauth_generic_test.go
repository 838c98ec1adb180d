//go:build !darwin || !arm64

package imagehook

import "testing"

func TestStripDataPointerIdentity(t *testing.T) {
	one := uintptr(1)
	values := []uintptr{
		0,
		1,
		0x7fff_ffff,
		^uintptr(0),
		^uintptr(0) >> 9,
		// Bit 47 is an address bit on 48-bit-VA kernels; it must survive.
		one << 47,
		one<<47 | 0x1234,
	}
	for _, p := range values {
		if got := StripDataPointer(p); got != p {
			t.Errorf("StripDataPointer(%#x) = %#x, want identity", p, got)
		}
	}
}
