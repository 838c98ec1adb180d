//go:build darwin && cgo

package imagehook

/*
extern void imagehookRegisterAddImage(void);
*/
import "C"

// loadImagesOS registers the add-image trampoline with dyld. dyld replays the
// notification for every image already mapped and keeps firing for each later
// load, so a single registration covers the whole process lifetime.
func loadImagesOS() {
	C.imagehookRegisterAddImage()
}
