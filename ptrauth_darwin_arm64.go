//go:build darwin && arm64

package imagehook

// Data pointers on pointer-authenticating arm64 parts carry their signature
// in the bits above the virtual address range; bit 55 stays clear of the code
// and selects the address half. 47 address bits matches the translation
// regime darwin configures the signing hardware for; other arm64 targets
// either lack the extension or never hand Go a signed data pointer, and take
// the identity path instead.
const (
	pauthAddrBits   = 47
	pauthSelectBit  = 55
	pauthUpperMask  = ^uintptr(0) << pauthAddrBits
	pauthSelectMask = uintptr(1) << pauthSelectBit
)

// StripDataPointer clears the data-key authentication code from p, the
// software equivalent of the xpacd instruction: the bits above the address
// range are replaced by the extension of the address-half select bit, and the
// address bits pass through untouched. Any bit pattern is accepted; nothing
// is dereferenced or validated.
func StripDataPointer(p uintptr) uintptr {
	if p&pauthSelectMask != 0 {
		return p | pauthUpperMask
	}
	return p &^ pauthUpperMask
}
