// Package imagehook locates a reserved metadata section inside every binary
// module loaded into the running process and hands its bounds to a
// process-wide registration callback, once per module. The section is emitted
// at build time under a fixed per-format name and is referenced by no symbol,
// so the only way to find it is to ask the loader (or the object file's own
// layout) for its start and size.
//
// The discovery strategy is selected at compile time: on darwin the package
// registers with dyld's add-image notification, on linux it combines linker
// boundary symbols with a scan of the already-mapped ELF objects, and on
// windows it enumerates the loaded modules once at setup time. The package
// never writes to, allocates in, or frees the memory it reports.
package imagehook

import "sync/atomic"

// Section describes one contiguous metadata range inside a loaded module.
// A Length of zero means the module carries no records; Base is then
// advisory only and must not be dereferenced.
type Section struct {
	Base   uintptr
	Length uintptr
}

// RegisterFunc receives the bounds of one discovered metadata section.
// It must tolerate zero-length sections, is invoked once per loaded module,
// and must not itself trigger a module load: on darwin it runs inside the
// loader's own notification pass.
type RegisterFunc func(Section)

var (
	registered atomic.Pointer[RegisterFunc]
	loaded     atomic.Bool
)

// SetRegisterFunc binds the process-wide registration callback. It should be
// called exactly once, before LoadImages; modules announced while no callback
// is bound are silently skipped.
func SetRegisterFunc(fn RegisterFunc) {
	if fn == nil {
		registered.Store(nil)
		return
	}
	registered.Store(&fn)
}

// LoadImages arranges for every loaded module's metadata section to be
// delivered to the registered callback. The first call performs the
// platform-specific setup: on darwin it registers with the dynamic loader,
// which replays all images already present and keeps notifying for the
// lifetime of the process; elsewhere it scans whatever is statically
// determinable, once. Subsequent calls are no-ops.
func LoadImages() {
	if !loaded.CompareAndSwap(false, true) {
		return
	}
	loadImagesOS()
}

// deliver hands one section to the registered callback, dropping it when no
// callback is bound. Absent sections are delivered with Length 0 so the
// callback sees every module exactly once.
func deliver(sect Section) {
	fn := registered.Load()
	if fn == nil {
		return
	}
	(*fn)(sect)
}
