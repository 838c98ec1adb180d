//go:build linux

package imagehook

import (
	"debug/elf"
	"errors"
	"os"
	"strings"

	"github.com/sliverarmory/imagehook/imagefile"
)

var errInvalidHex = errors.New("invalid hex address")

// loadImagesOS scans every ELF object mapped into the process at the moment
// of the first LoadImages call. Linux offers no public notify-on-load
// facility, so this is a one-shot pass: the running executable reports the
// exact byte range bracketed by the linker's boundary symbols when the build
// carries them, and every other mapped object is read back through its own
// section headers, adjusted by its load bias.
func loadImagesOS() {
	// When the executable cannot be identified, skip the boundary-symbol
	// delivery and let the maps scan cover it; announcing it through both
	// paths would double up.
	exePath := selfExePath()
	ownDelivered := false
	if exePath != "" {
		if sect, ok := ownImageSection(); ok {
			deliver(sect)
			ownDelivered = true
		}
	}

	modules, err := loadedModules()
	if err != nil {
		return
	}
	for _, mod := range modules {
		if ownDelivered && mod.path == exePath {
			continue
		}
		deliver(moduleSection(mod))
	}
}

// selfExePath resolves the running executable's file path in the same form
// /proc/self/maps records it, so the two stay comparable even after the file
// is unlinked.
func selfExePath() string {
	path, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return ""
	}
	return trimDeleted(path)
}

// trimDeleted drops the suffix the kernel appends to paths of unlinked files.
func trimDeleted(path string) string {
	return strings.TrimSuffix(path, " (deleted)")
}

// loadedModule is one file-backed image in the process address space: the
// path the loader mapped and the bias to add to its link-time addresses.
type loadedModule struct {
	path string
	bias uintptr
}

// loadedModules parses /proc/self/maps and reports each distinct file-backed
// object with an executable mapping, keyed by the lowest such mapping.
func loadedModules() ([]loadedModule, error) {
	raw, err := os.ReadFile("/proc/self/maps")
	if err != nil {
		return nil, err
	}
	return parseMaps(string(raw)), nil
}

func parseMaps(data string) []loadedModule {
	seen := make(map[string]bool)
	var modules []loadedModule
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		if !strings.Contains(fields[1], "x") {
			continue
		}

		path := trimDeleted(strings.Join(fields[5:], " "))
		if !strings.HasPrefix(path, "/") || seen[path] {
			continue
		}

		rangeParts := strings.SplitN(fields[0], "-", 2)
		if len(rangeParts) != 2 {
			continue
		}
		start, startErr := parseHexUintptr(rangeParts[0])
		offset, offsetErr := parseHexUintptr(fields[2])
		if startErr != nil || offsetErr != nil || start < offset {
			continue
		}

		seen[path] = true
		modules = append(modules, loadedModule{path: path, bias: start - offset})
	}
	return modules
}

func parseHexUintptr(s string) (uintptr, error) {
	var out uintptr
	for _, r := range s {
		out <<= 4
		switch {
		case r >= '0' && r <= '9':
			out += uintptr(r - '0')
		case r >= 'a' && r <= 'f':
			out += uintptr(r-'a') + 10
		case r >= 'A' && r <= 'F':
			out += uintptr(r-'A') + 10
		default:
			return 0, errInvalidHex
		}
	}
	return out, nil
}

// moduleSection locates the metadata section of one mapped ELF object through
// its file's section headers. Position-independent objects report addresses
// relative to their load bias; fixed executables already carry absolute ones.
func moduleSection(mod loadedModule) Section {
	f, err := elf.Open(mod.path)
	if err != nil {
		return Section{Base: mod.bias, Length: 0}
	}
	fileType := f.Type
	sect := f.Section(imagefile.ELFSection)
	var addr, size uint64
	if sect != nil {
		addr = sect.Addr
		size = sect.Size
	}
	f.Close()

	if sect == nil {
		return Section{Base: mod.bias, Length: 0}
	}
	base := uintptr(addr)
	if fileType == elf.ET_DYN {
		base += mod.bias
	}
	return Section{Base: base, Length: uintptr(size)}
}
