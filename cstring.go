package imagehook

// fixedCString decodes a fixed-width, NUL-padded name field from an object
// header. Fields that use all their bytes carry no terminator.
func fixedCString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
