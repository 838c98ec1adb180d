//go:build linux && cgo

package imagehook

/*
#include <stdint.h>

extern uintptr_t imagehookSectionStart(void);
extern uintptr_t imagehookSectionStop(void);
*/
import "C"

// ownImageSection reads the boundary symbols the linker synthesizes around
// the conformances section of this executable. The section is declared empty
// by imagehook.c, so start and stop are valid addresses even when no
// translation unit contributes a single record, and the difference counts
// real contributions only, with no padding.
func ownImageSection() (Section, bool) {
	start := uintptr(C.imagehookSectionStart())
	stop := uintptr(C.imagehookSectionStop())
	if stop < start {
		return Section{}, false
	}
	return Section{Base: start, Length: stop - start}, true
}
