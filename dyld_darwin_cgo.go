//go:build darwin && cgo

package imagehook

/*
#include <stdint.h>
*/
import "C"

// goImageAdded is the dyld add-image notification. It runs inside the
// loader's own pass over the image list, so it does nothing beyond walking
// the already-mapped load commands: no allocation, no I/O, no further loads.
//
//export goImageAdded
func goImageAdded(header C.uintptr_t, slide C.intptr_t) {
	deliver(machImageSection(uintptr(header), uintptr(slide)))
}
