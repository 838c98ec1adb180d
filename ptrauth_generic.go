//go:build !darwin || !arm64

package imagehook

// StripDataPointer is the identity on targets without pointer
// authentication: there is no signature to remove, so every value maps to
// itself. That includes arm64 targets where the extension is absent or
// unused for data pointers, so high-half addresses pass through untouched.
func StripDataPointer(p uintptr) uintptr {
	return p
}
