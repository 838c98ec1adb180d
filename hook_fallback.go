//go:build !linux && !windows && (!darwin || !cgo)

package imagehook

import (
	"os"

	"github.com/sliverarmory/imagehook/imagefile"
)

// loadImagesOS is the last-resort adapter for hosts with no loader
// notification and no in-process header access: a single static pass over the
// running executable's own file, reporting whatever bounds its object layout
// records. The addresses are link-time values, not slid runtime ones.
func loadImagesOS() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	info, err := imagefile.Inspect(exe)
	if err != nil || !info.Found {
		deliver(Section{})
		return
	}
	deliver(Section{Base: uintptr(info.Addr), Length: uintptr(info.Size)})
}
